package datasetfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// SpreadsheetStore keeps the workbook the dataset was generated from.
type SpreadsheetStore struct {
	path string
}

var _ ports.SpreadsheetStore = (*SpreadsheetStore)(nil)

// NewSpreadsheetStore creates a store writing to path.
func NewSpreadsheetStore(path string) *SpreadsheetStore {
	return &SpreadsheetStore{path: path}
}

// Replace writes content over the stored workbook. The returned function
// brings back the previous workbook, or removes the new one when there was
// none.
func (s *SpreadsheetStore) Replace(ctx context.Context, content []byte) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backup, err := os.ReadFile(s.path)
	hadPrevious := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("back up spreadsheet: %w", err)
	}

	if err := writeAtomic(s.path, content); err != nil {
		return nil, err
	}

	restore := func() error {
		if !hadPrevious {
			if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		}
		return writeAtomic(s.path, backup)
	}
	return restore, nil
}
