package ports

import (
	"context"
	"io"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// DatasetSource reads and writes the pre-aggregated dataset document.
type DatasetSource interface {
	// Load reads, decodes and validates the current document.
	Load(ctx context.Context) (*domain.DatasetSnapshot, error)
	// Write replaces the document with ds and returns the new raw bytes.
	Write(ctx context.Context, ds *domain.Dataset) ([]byte, error)
	// Restore puts previously read raw bytes back in place.
	Restore(ctx context.Context, raw []byte) error
}

// SpreadsheetReader turns an uploaded workbook into ticket rows.
type SpreadsheetReader interface {
	ReadRecords(ctx context.Context, r io.Reader) ([]domain.TicketRecord, error)
}

// SpreadsheetStore keeps the source workbook the dataset was generated from.
type SpreadsheetStore interface {
	// Replace stores the new workbook and returns a function that puts the
	// previous one back.
	Replace(ctx context.Context, content []byte) (restore func() error, err error)
}

// DepartmentMapper maps raw department names to first-level departments.
type DepartmentMapper interface {
	Map(department string) string
}

// UploadRepository persists the upload history.
type UploadRepository interface {
	Create(ctx context.Context, record *domain.UploadRecord) error
	ListRecent(ctx context.Context, limit int) ([]*domain.UploadRecord, error)
}

// EventBroadcaster pushes real-time events to connected dashboards.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
