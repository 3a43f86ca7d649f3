// Package memory holds process-local adapters used when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DefaultHistoryRetention is how many upload records are kept.
const DefaultHistoryRetention = 200

// UploadRepository keeps the upload history in memory.
type UploadRepository struct {
	mu      sync.RWMutex
	records []*domain.UploadRecord
	retain  int
}

var _ ports.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates a repository keeping the newest retain records.
func NewUploadRepository(retain int) *UploadRepository {
	if retain <= 0 {
		retain = DefaultHistoryRetention
	}
	return &UploadRepository{retain: retain}
}

// Create stores a copy of record.
func (r *UploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *record
	r.records = append(r.records, &rec)
	sort.SliceStable(r.records, func(i, j int) bool {
		return r.records[i].CreatedAt.After(r.records[j].CreatedAt)
	})
	if len(r.records) > r.retain {
		r.records = r.records[:r.retain]
	}
	return nil
}

// ListRecent returns copies of the newest records first.
func (r *UploadRepository) ListRecent(ctx context.Context, limit int) ([]*domain.UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := min(limit, len(r.records))
	out := make([]*domain.UploadRecord, 0, n)
	for _, rec := range r.records[:n] {
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}
