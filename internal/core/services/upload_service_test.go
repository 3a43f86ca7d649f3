package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/mocks"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type uploadFixture struct {
	reader      *mocks.MockSpreadsheetReader
	store       *mocks.MockSpreadsheetStore
	source      *mocks.MockDatasetSource
	provider    *mocks.MockDatasetProvider
	repo        *mocks.MockUploadRepository
	broadcaster *mocks.MockEventBroadcaster
}

func newUploadFixture() *uploadFixture {
	return &uploadFixture{
		reader:      mocks.NewMockSpreadsheetReader(),
		store:       mocks.NewMockSpreadsheetStore(),
		source:      mocks.NewMockDatasetSource(),
		provider:    mocks.NewMockDatasetProvider(),
		repo:        mocks.NewMockUploadRepository(),
		broadcaster: mocks.NewMockEventBroadcaster(),
	}
}

func (f *uploadFixture) service(opts ...services.UploadOption) *services.UploadService {
	clock := func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	opts = append([]services.UploadOption{services.WithClock(clock)}, opts...)
	return services.NewUploadService(services.UploadDeps{
		Reader:      f.reader,
		Store:       f.store,
		Source:      f.source,
		Provider:    f.provider,
		Repo:        f.repo,
		Broadcaster: f.broadcaster,
	}, discardLogger(), opts...)
}

func (f *uploadFixture) expectOutcome(status domain.UploadStatus, event domain.EventType) {
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.UploadRecord) bool {
		return r.Status == status
	})).Return(nil).Once()
	f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == event
	})).Return(nil).Once()
}

func (f *uploadFixture) assertExpectations(t *testing.T) {
	f.reader.AssertExpectations(t)
	f.store.AssertExpectations(t)
	f.source.AssertExpectations(t)
	f.provider.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.broadcaster.AssertExpectations(t)
}

func sheetRecords() []domain.TicketRecord {
	created := time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC)
	return []domain.TicketRecord{
		{Serial: "GD-1", Department: "财务部", CreatedAt: &created, AuditStatus: "审核通过", ProcessStatus: "已结束"},
		{Serial: "GD-2", Department: "信息部", CreatedAt: &created, AuditStatus: "草稿", ProcessStatus: "未结束"},
	}
}

func TestUploadService_RejectsBeforeTouchingFiles(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		params  ports.UploadParams
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing file",
			params:  ports.UploadParams{Filename: "", Content: nil},
			wantErr: apperrors.ErrFileRequired,
			wantMsg: services.MsgFileMissing,
		},
		{
			name:    "csv file",
			params:  ports.UploadParams{Filename: "tickets.csv", Content: []byte("a,b")},
			wantErr: apperrors.ErrUnsupportedFileType,
			wantMsg: services.MsgUnsupportedFile,
		},
		{
			name:    "too large",
			params:  ports.UploadParams{Filename: "tickets.xlsx", Content: []byte("0123456789")},
			wantErr: apperrors.ErrFileTooLarge,
			wantMsg: services.MsgFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture()
			f.expectOutcome(domain.UploadFailed, domain.EventUploadFailed)
			svc := f.service(services.WithMaxBytes(8))

			record, err := svc.Upload(ctx, tt.params)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUploadRejected)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.UploadFailed, record.Status)
			assert.Equal(t, tt.wantMsg, record.Message)
			f.store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestUploadService_Success(t *testing.T) {
	ctx := context.Background()
	f := newUploadFixture()
	content := []byte("PK\x03\x04workbook")

	f.provider.On("Current").Return(testSnapshot("fp-old"), nil)
	f.store.On("Replace", mock.Anything, content).Return(nil)
	f.reader.On("ReadRecords", mock.Anything, mock.Anything).Return(sheetRecords(), nil)
	f.source.On("Write", mock.Anything, mock.MatchedBy(func(ds *domain.Dataset) bool {
		return ds.Summary.TotalTickets == 2
	})).Return([]byte("{}"), nil)
	f.provider.On("Reload", mock.Anything).Return(testSnapshot("fp-new"), nil)
	f.expectOutcome(domain.UploadSucceeded, domain.EventDatasetReloaded)

	record, err := f.service().Upload(ctx, ports.UploadParams{Filename: "工单.XLSX", Content: content})

	require.NoError(t, err)
	assert.Equal(t, domain.UploadSucceeded, record.Status)
	assert.Equal(t, "文件上传成功", record.Message)
	assert.Equal(t, "fp-new", record.Fingerprint)
	assert.Equal(t, 30, record.TotalTickets)
	assert.Zero(t, f.store.Restores)
	f.source.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_RecordsAppliedUploadAfterCallerLeaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newUploadFixture()
	content := []byte("PK\x03\x04workbook")
	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

	f.provider.On("Current").Return(testSnapshot("fp-old"), nil)
	f.store.On("Replace", live, content).Return(nil)
	f.reader.On("ReadRecords", live, mock.Anything).Return(sheetRecords(), nil).Run(func(mock.Arguments) {
		// The client disconnects while the workbook is being read.
		cancel()
	})
	f.source.On("Write", live, mock.Anything).Return([]byte("{}"), nil)
	f.provider.On("Reload", live).Return(testSnapshot("fp-new"), nil)
	f.repo.On("Create", live, mock.MatchedBy(func(r *domain.UploadRecord) bool {
		return r.Status == domain.UploadSucceeded
	})).Return(nil).Once()
	f.broadcaster.On("Broadcast", mock.Anything).Return(nil).Once()

	record, err := f.service().Upload(ctx, ports.UploadParams{Filename: "tickets.xlsx", Content: content})

	require.NoError(t, err)
	assert.Equal(t, domain.UploadSucceeded, record.Status)
	assert.Error(t, ctx.Err())
	f.assertExpectations(t)
}

func TestUploadService_IngestionFailureRestoresSpreadsheet(t *testing.T) {
	ctx := context.Background()
	f := newUploadFixture()

	f.provider.On("Current").Return(testSnapshot("fp-old"), nil)
	f.store.On("Replace", mock.Anything, mock.Anything).Return(nil)
	f.reader.On("ReadRecords", mock.Anything, mock.Anything).Return(nil, errors.New("missing header row"))
	f.expectOutcome(domain.UploadFailed, domain.EventUploadFailed)

	record, err := f.service().Upload(ctx, ports.UploadParams{Filename: "t.xlsx", Content: []byte("bad")})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUploadRejected)
	assert.ErrorIs(t, err, apperrors.ErrIngestionFailed)
	assert.Equal(t, "处理失败: missing header row", record.Message)
	assert.Equal(t, 1, f.store.Restores)
	f.source.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_ReloadFailureRestoresEverything(t *testing.T) {
	ctx := context.Background()
	f := newUploadFixture()
	previous := testSnapshot("fp-old")

	f.provider.On("Current").Return(previous, nil)
	f.store.On("Replace", mock.Anything, mock.Anything).Return(nil)
	f.reader.On("ReadRecords", mock.Anything, mock.Anything).Return(sheetRecords(), nil)
	f.source.On("Write", mock.Anything, mock.Anything).Return([]byte("{}"), nil)
	f.provider.On("Reload", mock.Anything).Return(nil, apperrors.DatasetLoadError(errors.New("bad json")))
	f.source.On("Restore", mock.Anything, previous.Raw).Return(nil)
	f.expectOutcome(domain.UploadFailed, domain.EventUploadFailed)

	record, err := f.service().Upload(ctx, ports.UploadParams{Filename: "t.xls", Content: []byte("sheet")})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUploadRejected)
	assert.ErrorIs(t, err, apperrors.ErrDatasetLoad)
	assert.Equal(t, services.MsgProcessingFailure, record.Message)
	assert.Equal(t, 1, f.store.Restores)
	f.assertExpectations(t)
}

func TestUploadService_FirstUploadHasNothingToRestore(t *testing.T) {
	ctx := context.Background()
	f := newUploadFixture()

	f.provider.On("Current").Return(nil, apperrors.ErrDatasetNotLoaded)
	f.store.On("Replace", mock.Anything, mock.Anything).Return(nil)
	f.reader.On("ReadRecords", mock.Anything, mock.Anything).Return(sheetRecords(), nil)
	f.source.On("Write", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))
	f.expectOutcome(domain.UploadFailed, domain.EventUploadFailed)

	_, err := f.service().Upload(ctx, ports.UploadParams{Filename: "t.xlsx", Content: []byte("sheet")})

	require.Error(t, err)
	assert.Equal(t, 1, f.store.Restores)
	f.source.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_History(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "explicit", limit: 5, wantLimit: 5},
		{name: "zero uses default", limit: 0, wantLimit: 20},
		{name: "over cap uses default", limit: 500, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture()
			want := []*domain.UploadRecord{domain.NewUploadRecord("a.xlsx", 1)}
			f.repo.On("ListRecent", ctx, tt.wantLimit).Return(want, nil)

			got, err := f.service().History(ctx, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, want, got)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestUploadMessage(t *testing.T) {
	assert.Equal(t, "文件上传成功", services.UploadMessage(nil))
	assert.Equal(t, "只支持Excel文件(.xlsx/.xls)",
		services.UploadMessage(apperrors.UploadRejectedError(apperrors.ErrUnsupportedFileType)))
	assert.Equal(t, "处理失败: boom",
		services.UploadMessage(apperrors.UploadRejectedError(&apperrors.IngestionError{Cause: errors.New("boom")})))
}
