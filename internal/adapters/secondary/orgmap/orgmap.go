// Package orgmap maps raw department names to first-level departments using a
// YAML organisation file.
package orgmap

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lorrc/ticket-insights/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// ErrInvalidMap is returned when the organisation file is malformed.
var ErrInvalidMap = errors.New("invalid organisation map")

// File is the on-disk layout:
//
//	departments:
//	  - name: 财务中心
//	    match: [财务部, 资金管理部]
//	    prefixes: [财务]
type File struct {
	Departments []Department `yaml:"departments"`
}

// Department is one first-level department and the raw names it absorbs.
type Department struct {
	Name     string   `yaml:"name"`
	Match    []string `yaml:"match"`
	Prefixes []string `yaml:"prefixes"`
}

type prefix struct {
	value string
	name  string
}

// Mapper resolves department names. Exact matches win over prefixes and the
// longest prefix wins. Unknown names map to themselves.
type Mapper struct {
	exact    map[string]string
	prefixes []prefix
}

var _ ports.DepartmentMapper = (*Mapper)(nil)

// New builds a mapper from a parsed file.
func New(f File) (*Mapper, error) {
	m := &Mapper{exact: make(map[string]string)}
	for i, d := range f.Departments {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: department %d has no name", ErrInvalidMap, i+1)
		}
		m.exact[name] = name
		for _, raw := range d.Match {
			raw = strings.TrimSpace(raw)
			if other, ok := m.exact[raw]; ok && other != name {
				return nil, fmt.Errorf("%w: %q belongs to both %q and %q", ErrInvalidMap, raw, other, name)
			}
			m.exact[raw] = name
		}
		for _, p := range d.Prefixes {
			if p = strings.TrimSpace(p); p != "" {
				m.prefixes = append(m.prefixes, prefix{value: p, name: name})
			}
		}
	}
	sort.SliceStable(m.prefixes, func(i, j int) bool {
		return len(m.prefixes[i].value) > len(m.prefixes[j].value)
	})
	return m, nil
}

// Parse reads a YAML organisation map.
func Parse(data []byte) (*Mapper, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
	}
	return New(f)
}

// Load reads the organisation map at path. An empty path yields a mapper
// that keeps every name as it is.
func Load(path string) (*Mapper, error) {
	if path == "" {
		return New(File{})
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading organisation map: %w", err)
	}
	return Parse(data)
}

// Map returns the first-level department for a raw name.
func (m *Mapper) Map(department string) string {
	if name, ok := m.exact[department]; ok {
		return name
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(department, p.value) {
			return p.name
		}
	}
	return department
}

// Len reports how many names map exactly.
func (m *Mapper) Len() int {
	return len(m.exact)
}
