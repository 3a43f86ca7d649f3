// Package datasetfile keeps the dataset document and its source spreadsheet
// on the local filesystem.
package datasetfile

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"golang.org/x/crypto/blake2b"
)

// Source reads and writes ticket_data.json.
type Source struct {
	path string
	now  func() time.Time
}

var _ ports.DatasetSource = (*Source)(nil)

// NewSource creates a dataset source backed by the file at path.
func NewSource(path string) *Source {
	return &Source{path: path, now: time.Now}
}

// Path returns the dataset file location.
func (s *Source) Path() string {
	return s.path
}

// Load reads, decodes and validates the dataset. Every failure matches
// ErrDatasetLoad.
func (s *Source) Load(ctx context.Context) (*domain.DatasetSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.DatasetLoadError(err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.DatasetLoadError(err)
	}

	ds, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	return &domain.DatasetSnapshot{
		Dataset:     ds,
		Raw:         raw,
		Fingerprint: Fingerprint(raw),
		LoadedAt:    s.now().UTC(),
	}, nil
}

// Decode parses a dataset document and checks its required keys and series.
func Decode(raw []byte) (*domain.Dataset, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, apperrors.DatasetLoadError(fmt.Errorf("decode dataset: %w", err))
	}
	for _, key := range domain.RequiredDatasetKeys {
		if v, ok := keys[key]; !ok || bytes.Equal(v, []byte("null")) {
			return nil, apperrors.DatasetLoadError(fmt.Errorf("%w: %s", apperrors.ErrMissingKey, key))
		}
	}

	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, apperrors.DatasetLoadError(fmt.Errorf("decode dataset: %w", err))
	}
	if err := ds.Validate(); err != nil {
		return nil, apperrors.DatasetLoadError(err)
	}
	return &ds, nil
}

// Encode renders ds the way it is stored on disk.
func Encode(ds *domain.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the dataset file with ds.
func (s *Source) Write(ctx context.Context, ds *domain.Dataset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := Encode(ds)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(s.path, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Restore puts previously loaded bytes back in place.
func (s *Source) Restore(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(s.path, raw)
}

// Fingerprint returns the hex BLAKE2b-256 digest of a dataset document.
func Fingerprint(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// writeAtomic writes data next to path and renames it into place, so readers
// see either the old or the new file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
