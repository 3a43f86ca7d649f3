package ports

import (
	"context"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/stats"
)

// DatasetProvider holds the currently loaded dataset.
type DatasetProvider interface {
	// Current returns the loaded snapshot or ErrDatasetNotLoaded.
	Current() (*domain.DatasetSnapshot, error)
	// Reload reads the source again, keeping the previous snapshot on failure.
	Reload(ctx context.Context) (*domain.DatasetSnapshot, error)
}

// StatsService derives filtered views of the loaded dataset.
type StatsService interface {
	Summary(ctx context.Context, filter domain.FilterState) (*stats.SummaryView, error)
	Series(ctx context.Context, dim domain.Dimension, filter domain.FilterState) (domain.Series, error)
	Dashboard(ctx context.Context, filter domain.FilterState, chartDrafts bool) (*stats.DashboardView, error)
	Unfinished(ctx context.Context, filter domain.FilterState) ([]domain.UnfinishedTicket, error)
	Years(ctx context.Context) ([]stats.YearOption, error)
}

// UploadParams describes an incoming spreadsheet.
type UploadParams struct {
	Filename string
	Content  []byte
}

// UploadService replaces the source spreadsheet and regenerates the dataset.
type UploadService interface {
	Upload(ctx context.Context, params UploadParams) (*domain.UploadRecord, error)
	History(ctx context.Context, limit int) ([]*domain.UploadRecord, error)
}
