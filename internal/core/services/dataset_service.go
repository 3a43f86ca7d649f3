package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DatasetService holds the dataset currently served. Readers never block:
// a reload swaps the whole snapshot at once.
type DatasetService struct {
	source  ports.DatasetSource
	logger  *slog.Logger
	current atomic.Pointer[domain.DatasetSnapshot]
}

var _ ports.DatasetProvider = (*DatasetService)(nil)

// NewDatasetService creates a dataset service. Nothing is loaded until Reload.
func NewDatasetService(source ports.DatasetSource, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		source: source,
		logger: logger.With("component", "dataset_service"),
	}
}

// Current returns the loaded snapshot.
func (s *DatasetService) Current() (*domain.DatasetSnapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return snap, nil
}

// Reload reads the source again. On failure the previous snapshot stays.
func (s *DatasetService) Reload(ctx context.Context) (*domain.DatasetSnapshot, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset reload failed", "error", err)
		return nil, err
	}

	if !snap.Dataset.TotalsConsistent() {
		s.logger.WarnContext(ctx, "yearly counts do not add up to the ticket total",
			"total_tickets", snap.Dataset.Summary.TotalTickets,
			"yearly_sum", snap.Dataset.YearStats.Sum(),
		)
	}

	s.current.Store(snap)
	s.logger.InfoContext(ctx, "dataset loaded",
		"fingerprint", snap.Fingerprint,
		"total_tickets", snap.Dataset.Summary.TotalTickets,
		"years", len(snap.Dataset.YearStats.Labels),
	)
	return snap, nil
}
