package services

import (
	"context"
	"fmt"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/stats"
)

// StatsService answers filtered views of the current dataset.
type StatsService struct {
	provider ports.DatasetProvider
}

var _ ports.StatsService = (*StatsService)(nil)

// NewStatsService creates a new stats service
func NewStatsService(provider ports.DatasetProvider) ports.StatsService {
	return &StatsService{provider: provider}
}

// dataset returns the current dataset and the filter checked against it.
func (s *StatsService) dataset(filter domain.FilterState) (*domain.Dataset, domain.FilterState, error) {
	snap, err := s.provider.Current()
	if err != nil {
		return nil, filter, err
	}
	f, err := stats.ValidateFilter(snap.Dataset, filter)
	if err != nil {
		return nil, filter, err
	}
	return snap.Dataset, f, nil
}

// Summary returns the overview figures and narrator line.
func (s *StatsService) Summary(ctx context.Context, filter domain.FilterState) (*stats.SummaryView, error) {
	ds, f, err := s.dataset(filter)
	if err != nil {
		return nil, err
	}
	return stats.Summarize(ds, f), nil
}

// Series returns one dimension's derived series.
func (s *StatsService) Series(ctx context.Context, dim domain.Dimension, filter domain.FilterState) (domain.Series, error) {
	if !dim.IsValid() {
		return domain.Series{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownDimension, dim)
	}
	ds, f, err := s.dataset(filter)
	if err != nil {
		return domain.Series{}, err
	}
	return stats.Series(ds, dim, f)
}

// Dashboard returns every chart for a single global filter. chartDrafts
// reports whether the caller chose the draft flag for the charts too.
func (s *StatsService) Dashboard(ctx context.Context, filter domain.FilterState, chartDrafts bool) (*stats.DashboardView, error) {
	ds, f, err := s.dataset(filter)
	if err != nil {
		return nil, err
	}
	return stats.Dashboard(ds, f, chartDrafts), nil
}

// Unfinished returns the open tickets for the filter.
func (s *StatsService) Unfinished(ctx context.Context, filter domain.FilterState) ([]domain.UnfinishedTicket, error) {
	ds, f, err := s.dataset(filter)
	if err != nil {
		return nil, err
	}
	return stats.Unfinished(ds, f), nil
}

// Years returns the year selector options.
func (s *StatsService) Years(ctx context.Context) ([]stats.YearOption, error) {
	snap, err := s.provider.Current()
	if err != nil {
		return nil, err
	}
	return stats.YearOptions(snap.Dataset), nil
}
