package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Fixed labels used by the ingestion pipeline and the derived views.
const (
	// DraftLabel is the audit status that marks a ticket as a draft.
	DraftLabel = "草稿"
	// OpenStatusLabel is the process status bucket of unfinished tickets.
	OpenStatusLabel = "未结束"
	// CheckedMark is the spreadsheet value of a ticked system column.
	CheckedMark = "勾选"
)

// SystemCategories is the fixed display order of the system dimension.
var SystemCategories = []string{"OA系统", "营销平台", "U8C"}

// Series is a labelled count series, the shape every chart consumes.
type Series struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// EmptySeries returns a series with non-nil, empty slices so it encodes as
// {"labels":[],"data":[]}.
func EmptySeries() Series {
	return Series{Labels: []string{}, Data: []int{}}
}

// Len returns the number of buckets.
func (s Series) Len() int {
	return len(s.Labels)
}

// IsEmpty reports whether the series has no buckets.
func (s Series) IsEmpty() bool {
	return len(s.Labels) == 0
}

// IndexOf returns the index of label or -1.
func (s Series) IndexOf(label string) int {
	for i, l := range s.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Value returns the count for label.
func (s Series) Value(label string) (int, bool) {
	i := s.IndexOf(label)
	if i < 0 || i >= len(s.Data) {
		return 0, false
	}
	return s.Data[i], true
}

// Sum returns the total of all counts.
func (s Series) Sum() int {
	total := 0
	for _, v := range s.Data {
		total += v
	}
	return total
}

// Clone returns a deep copy. The copy is never nil-sliced.
func (s Series) Clone() Series {
	out := Series{
		Labels: make([]string, len(s.Labels)),
		Data:   make([]int, len(s.Data)),
	}
	copy(out.Labels, s.Labels)
	copy(out.Data, s.Data)
	return out
}

// Head returns a copy holding at most the first n buckets.
func (s Series) Head(n int) Series {
	if n < 0 {
		n = 0
	}
	if n > len(s.Labels) {
		n = len(s.Labels)
	}
	out := Series{Labels: make([]string, n), Data: make([]int, n)}
	copy(out.Labels, s.Labels[:n])
	copy(out.Data, s.Data[:n])
	return out
}

// Slice returns a copy of buckets [from, to), clipped to the series bounds.
func (s Series) Slice(from, to int) Series {
	if from < 0 {
		from = 0
	}
	if to > len(s.Labels) {
		to = len(s.Labels)
	}
	if from >= to {
		return EmptySeries()
	}
	out := Series{Labels: make([]string, to-from), Data: make([]int, to-from)}
	copy(out.Labels, s.Labels[from:to])
	copy(out.Data, s.Data[from:to])
	return out
}

// Validate checks label/data parity and non-negative counts.
func (s Series) Validate() error {
	if len(s.Labels) != len(s.Data) {
		return fmt.Errorf("labels/data length mismatch: %d labels, %d values", len(s.Labels), len(s.Data))
	}
	for i, v := range s.Data {
		if v < 0 {
			return fmt.Errorf("negative count %d for label %q", v, s.Labels[i])
		}
	}
	return nil
}

// YearSeries maps a year label to its series.
type YearSeries map[string]Series

// Get returns the series for year, or an empty series when absent.
func (y YearSeries) Get(year string) Series {
	if s, ok := y[year]; ok {
		return s
	}
	return EmptySeries()
}

// CategorySeries is a Series that travels over the wire as a flat JSON object
// keyed by category name, e.g. {"OA系统": 3, "营销平台": 1, "U8C": 0}.
type CategorySeries Series

// Series returns the plain series view.
func (c CategorySeries) Series() Series {
	return Series(c)
}

// MarshalJSON encodes the category map in label order.
func (c CategorySeries) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, label := range c.Labels {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		value := 0
		if i < len(c.Data) {
			value = c.Data[i]
		}
		buf = append(buf, []byte(fmt.Sprintf("%d", value))...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes a category map. Known categories keep their fixed
// order, unknown keys follow sorted.
func (c *CategorySeries) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = CategorySeries(CategoriesFromMap(raw))
	return nil
}

// CategoriesFromMap orders a category count map into a series.
func CategoriesFromMap(counts map[string]int) Series {
	out := EmptySeries()
	seen := make(map[string]bool, len(counts))
	for _, label := range SystemCategories {
		if v, ok := counts[label]; ok {
			out.Labels = append(out.Labels, label)
			out.Data = append(out.Data, v)
			seen[label] = true
		}
	}

	extra := make([]string, 0, len(counts))
	for label := range counts {
		if !seen[label] {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		out.Labels = append(out.Labels, label)
		out.Data = append(out.Data, counts[label])
	}
	return out
}

// ZeroCategories is the system series used when a year has no data.
func ZeroCategories() Series {
	out := Series{Labels: make([]string, len(SystemCategories)), Data: make([]int, len(SystemCategories))}
	copy(out.Labels, SystemCategories)
	return out
}

// CategoryYearSeries maps a year to its category series.
type CategoryYearSeries map[string]CategorySeries

// Get returns the year's categories, or all-zero categories when absent.
func (y CategoryYearSeries) Get(year string) Series {
	if s, ok := y[year]; ok {
		return s.Series()
	}
	return ZeroCategories()
}
