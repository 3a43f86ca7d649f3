package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ingest"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
)

// Upload outcome messages shown to the dashboard user.
const (
	MsgUploadSucceeded   = "文件上传成功"
	MsgUnsupportedFile   = "只支持Excel文件(.xlsx/.xls)"
	MsgFileMissing       = "未找到上传文件"
	MsgFileTooLarge      = "文件大小不能超过10MB"
	MsgProcessingFailure = "处理失败"
)

// DefaultIngestTimeout bounds reading and aggregating one spreadsheet.
const DefaultIngestTimeout = 60 * time.Second

// UploadDeps groups the collaborators of the upload pipeline.
type UploadDeps struct {
	Reader      ports.SpreadsheetReader
	Store       ports.SpreadsheetStore
	Source      ports.DatasetSource
	Provider    ports.DatasetProvider
	Mapper      ports.DepartmentMapper
	Repo        ports.UploadRepository
	Broadcaster ports.EventBroadcaster
}

// UploadService replaces the source spreadsheet, regenerates the dataset and
// reloads it. Uploads run one at a time.
type UploadService struct {
	deps          UploadDeps
	maxBytes      int64
	ingestTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time

	mu sync.Mutex
}

var _ ports.UploadService = (*UploadService)(nil)

// UploadOption customises an UploadService.
type UploadOption func(*UploadService)

// WithMaxBytes overrides the upload size limit.
func WithMaxBytes(n int64) UploadOption {
	return func(s *UploadService) { s.maxBytes = n }
}

// WithIngestTimeout overrides the ingestion deadline.
func WithIngestTimeout(d time.Duration) UploadOption {
	return func(s *UploadService) { s.ingestTimeout = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) UploadOption {
	return func(s *UploadService) { s.now = now }
}

// NewUploadService creates a new upload service
func NewUploadService(deps UploadDeps, logger *slog.Logger, opts ...UploadOption) *UploadService {
	s := &UploadService{
		deps:          deps,
		maxBytes:      domain.MaxUploadBytes,
		ingestTimeout: DefaultIngestTimeout,
		logger:        logger.With("component", "upload_service"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates and applies one spreadsheet. The returned record describes
// the outcome even when an error is returned. Rejections wrap
// ErrUploadRejected; any other error is an infrastructure failure.
func (s *UploadService) Upload(ctx context.Context, params ports.UploadParams) (*domain.UploadRecord, error) {
	record := domain.NewUploadRecord(params.Filename, int64(len(params.Content)))
	ctx = logging.WithUploadID(ctx, record.ID.String())

	if err := s.validate(params); err != nil {
		s.finish(ctx, record, err)
		return record, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An upload that has replaced the spreadsheet always runs to the end and
	// is recorded, even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	snap, err := s.apply(ctx, params.Content)
	if err != nil {
		s.finish(ctx, record, err)
		return record, err
	}

	record.Succeed(snap.Dataset.Summary.TotalTickets, snap.Fingerprint, MsgUploadSucceeded)
	s.finish(ctx, record, nil)
	return record, nil
}

func (s *UploadService) validate(params ports.UploadParams) error {
	switch {
	case params.Filename == "" || len(params.Content) == 0:
		return apperrors.UploadRejectedError(apperrors.ErrFileRequired)
	case !domain.HasAllowedExtension(params.Filename):
		return apperrors.UploadRejectedError(apperrors.ErrUnsupportedFileType)
	case int64(len(params.Content)) > s.maxBytes:
		return apperrors.UploadRejectedError(apperrors.ErrFileTooLarge)
	}
	return nil
}

// apply swaps in the new spreadsheet and regenerates the dataset. Every step
// after the swap is undone when a later step fails.
func (s *UploadService) apply(ctx context.Context, content []byte) (*domain.DatasetSnapshot, error) {
	var previous []byte
	if prev, err := s.deps.Provider.Current(); err == nil {
		previous = prev.Raw
	}

	restoreSheet, err := s.deps.Store.Replace(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("store spreadsheet: %w", err)
	}
	rollback := func(restoreDataset bool) {
		if err := restoreSheet(); err != nil {
			s.logger.ErrorContext(ctx, "failed to restore spreadsheet backup", "error", err)
		}
		if restoreDataset && previous != nil {
			if err := s.deps.Source.Restore(ctx, previous); err != nil {
				s.logger.ErrorContext(ctx, "failed to restore previous dataset", "error", err)
			}
		}
	}

	ds, err := s.ingest(ctx, content)
	if err != nil {
		rollback(false)
		return nil, apperrors.UploadRejectedError(&apperrors.IngestionError{Cause: err})
	}

	if _, err := s.deps.Source.Write(ctx, ds); err != nil {
		rollback(true)
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	snap, err := s.deps.Provider.Reload(ctx)
	if err != nil {
		rollback(true)
		return nil, fmt.Errorf("reload dataset: %w", err)
	}
	return snap, nil
}

func (s *UploadService) ingest(ctx context.Context, content []byte) (*domain.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.ingestTimeout)
	defer cancel()

	records, err := s.deps.Reader.ReadRecords(ctx, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return ingest.Build(records, s.deps.Mapper, s.now())
}

// finish records the outcome and notifies connected dashboards.
func (s *UploadService) finish(ctx context.Context, record *domain.UploadRecord, err error) {
	var event domain.Event
	if err != nil {
		record.Fail(UploadMessage(err))
		s.logger.WarnContext(ctx, "upload failed", "filename", record.Filename, "error", err)
		event = domain.Event{
			Type: domain.EventUploadFailed,
			Payload: domain.UploadFailedPayload{
				UploadID: record.ID.String(),
				Filename: record.Filename,
				Message:  record.Message,
			},
		}
	} else {
		s.logger.InfoContext(ctx, "upload applied",
			"filename", record.Filename,
			"size_bytes", record.SizeBytes,
			"total_tickets", record.TotalTickets,
		)
		event = domain.Event{
			Type: domain.EventDatasetReloaded,
			Payload: domain.DatasetReloadedPayload{
				Fingerprint:  record.Fingerprint,
				TotalTickets: record.TotalTickets,
				LoadedAt:     s.now().UTC(),
			},
		}
	}

	if err := s.deps.Repo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to save upload record", "error", err)
	}
	if s.deps.Broadcaster != nil {
		if err := s.deps.Broadcaster.Broadcast(event); err != nil {
			s.logger.WarnContext(ctx, "failed to broadcast upload event", "error", err)
		}
	}
}

// History lists the most recent upload attempts.
func (s *UploadService) History(ctx context.Context, limit int) ([]*domain.UploadRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.deps.Repo.ListRecent(ctx, limit)
}

// UploadMessage turns an upload error into the message shown to the user.
func UploadMessage(err error) string {
	switch {
	case err == nil:
		return MsgUploadSucceeded
	case errors.Is(err, apperrors.ErrFileRequired):
		return MsgFileMissing
	case errors.Is(err, apperrors.ErrUnsupportedFileType):
		return MsgUnsupportedFile
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return MsgFileTooLarge
	}
	var ingestErr *apperrors.IngestionError
	if errors.As(err, &ingestErr) {
		return MsgProcessingFailure + ": " + ingestErr.Cause.Error()
	}
	return MsgProcessingFailure
}
