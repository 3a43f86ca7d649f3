package mocks

import (
	"context"
	"io"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/stats"
	"github.com/stretchr/testify/mock"
)

// MockDatasetSource is a mock implementation of ports.DatasetSource
type MockDatasetSource struct {
	mock.Mock
}

func NewMockDatasetSource() *MockDatasetSource {
	return &MockDatasetSource{}
}

func (m *MockDatasetSource) Load(ctx context.Context) (*domain.DatasetSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetSnapshot), args.Error(1)
}

func (m *MockDatasetSource) Write(ctx context.Context, ds *domain.Dataset) ([]byte, error) {
	args := m.Called(ctx, ds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDatasetSource) Restore(ctx context.Context, raw []byte) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

// MockSpreadsheetReader is a mock implementation of ports.SpreadsheetReader
type MockSpreadsheetReader struct {
	mock.Mock
}

func NewMockSpreadsheetReader() *MockSpreadsheetReader {
	return &MockSpreadsheetReader{}
}

func (m *MockSpreadsheetReader) ReadRecords(ctx context.Context, r io.Reader) ([]domain.TicketRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketRecord), args.Error(1)
}

// MockSpreadsheetStore is a mock implementation of ports.SpreadsheetStore.
// Restores counts how often the returned restore function was called.
type MockSpreadsheetStore struct {
	mock.Mock
	Restores int
}

func NewMockSpreadsheetStore() *MockSpreadsheetStore {
	return &MockSpreadsheetStore{}
}

func (m *MockSpreadsheetStore) Replace(ctx context.Context, content []byte) (func() error, error) {
	args := m.Called(ctx, content)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() error {
		m.Restores++
		return nil
	}, nil
}

// MockDepartmentMapper is a mock implementation of ports.DepartmentMapper
type MockDepartmentMapper struct {
	mock.Mock
}

func NewMockDepartmentMapper() *MockDepartmentMapper {
	return &MockDepartmentMapper{}
}

func (m *MockDepartmentMapper) Map(department string) string {
	args := m.Called(department)
	return args.String(0)
}

// MockUploadRepository is a mock implementation of ports.UploadRepository
type MockUploadRepository struct {
	mock.Mock
}

func NewMockUploadRepository() *MockUploadRepository {
	return &MockUploadRepository{}
}

func (m *MockUploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUploadRepository) ListRecent(ctx context.Context, limit int) ([]*domain.UploadRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UploadRecord), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDatasetProvider is a mock implementation of ports.DatasetProvider
type MockDatasetProvider struct {
	mock.Mock
}

func NewMockDatasetProvider() *MockDatasetProvider {
	return &MockDatasetProvider{}
}

func (m *MockDatasetProvider) Current() (*domain.DatasetSnapshot, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetSnapshot), args.Error(1)
}

func (m *MockDatasetProvider) Reload(ctx context.Context) (*domain.DatasetSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetSnapshot), args.Error(1)
}

// MockStatsService is a mock implementation of ports.StatsService
type MockStatsService struct {
	mock.Mock
}

func NewMockStatsService() *MockStatsService {
	return &MockStatsService{}
}

func (m *MockStatsService) Summary(ctx context.Context, filter domain.FilterState) (*stats.SummaryView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.SummaryView), args.Error(1)
}

func (m *MockStatsService) Series(ctx context.Context, dim domain.Dimension, filter domain.FilterState) (domain.Series, error) {
	args := m.Called(ctx, dim, filter)
	return args.Get(0).(domain.Series), args.Error(1)
}

func (m *MockStatsService) Dashboard(ctx context.Context, filter domain.FilterState, chartDrafts bool) (*stats.DashboardView, error) {
	args := m.Called(ctx, filter, chartDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.DashboardView), args.Error(1)
}

func (m *MockStatsService) Unfinished(ctx context.Context, filter domain.FilterState) ([]domain.UnfinishedTicket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnfinishedTicket), args.Error(1)
}

func (m *MockStatsService) Years(ctx context.Context) ([]stats.YearOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.YearOption), args.Error(1)
}

// MockUploadService is a mock implementation of ports.UploadService
type MockUploadService struct {
	mock.Mock
}

func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Upload(ctx context.Context, params ports.UploadParams) (*domain.UploadRecord, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadRecord), args.Error(1)
}

func (m *MockUploadService) History(ctx context.Context, limit int) ([]*domain.UploadRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UploadRecord), args.Error(1)
}

var (
	_ ports.DatasetSource     = (*MockDatasetSource)(nil)
	_ ports.SpreadsheetReader = (*MockSpreadsheetReader)(nil)
	_ ports.SpreadsheetStore  = (*MockSpreadsheetStore)(nil)
	_ ports.DepartmentMapper  = (*MockDepartmentMapper)(nil)
	_ ports.UploadRepository  = (*MockUploadRepository)(nil)
	_ ports.EventBroadcaster  = (*MockEventBroadcaster)(nil)
	_ ports.DatasetProvider   = (*MockDatasetProvider)(nil)
	_ ports.StatsService      = (*MockStatsService)(nil)
	_ ports.UploadService     = (*MockUploadService)(nil)
)
