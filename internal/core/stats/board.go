package stats

import (
	"fmt"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// Board owns the filter state of a whole dashboard: one global selection
// plus one selection per chart. It is not safe for concurrent use.
type Board struct {
	global domain.FilterState
	charts map[domain.Dimension]domain.FilterState
}

// NewBoard creates a board with every filter at its default.
func NewBoard() *Board {
	b := &Board{
		global: domain.DefaultFilter(),
		charts: make(map[domain.Dimension]domain.FilterState, len(domain.ChartDimensions)),
	}
	for _, dim := range domain.ChartDimensions {
		b.charts[dim] = dim.ChartDefault()
	}
	return b
}

// Global returns the global selection.
func (b *Board) Global() domain.FilterState {
	return b.global
}

// Chart returns the selection of one chart.
func (b *Board) Chart(dim domain.Dimension) (domain.FilterState, bool) {
	f, ok := b.charts[dim]
	return f, ok
}

// Dispatch applies an action to the global selection. Year, half-year and
// reset actions are mirrored onto every chart so that they all follow the
// global year; the draft and department flags stay per chart.
func (b *Board) Dispatch(a domain.Action) {
	b.global = domain.Reduce(b.global, a)

	switch a.Kind {
	case domain.ActionSetHalfYear:
		if !b.global.HalfYearEnabled() {
			return
		}
		fallthrough
	case domain.ActionSetYear:
		for dim, f := range b.charts {
			f = domain.Reduce(f, domain.SetYear(b.global.Year))
			f = domain.Reduce(f, domain.SetHalfYear(b.global.HalfYear))
			b.charts[dim] = f
		}
	case domain.ActionReset:
		for dim := range b.charts {
			b.charts[dim] = dim.ChartDefault()
		}
	}
}

// DispatchChart applies an action to a single chart.
func (b *Board) DispatchChart(dim domain.Dimension, a domain.Action) error {
	f, ok := b.charts[dim]
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownDimension, dim)
	}
	b.charts[dim] = domain.Reduce(f, a)
	return nil
}

// DashboardView holds every chart series for one board state.
type DashboardView struct {
	Summary *SummaryView                            `json:"summary"`
	Filters map[domain.Dimension]domain.FilterState `json:"filters"`
	Charts  map[domain.Dimension]domain.Series      `json:"charts"`
	Yearly  domain.Series                           `json:"yearly"`
}

// Render recomputes every chart of the board from ds.
func (b *Board) Render(ds *domain.Dataset) *DashboardView {
	view := &DashboardView{
		Summary: Summarize(ds, b.global),
		Filters: make(map[domain.Dimension]domain.FilterState, len(b.charts)),
		Charts:  make(map[domain.Dimension]domain.Series, len(b.charts)),
		Yearly:  Yearly(ds, b.global),
	}
	for dim, f := range b.charts {
		s, _ := Series(ds, dim, f)
		view.Filters[dim] = f
		view.Charts[dim] = s
	}
	return view
}

// Dashboard renders a board whose charts all follow the year and half-year
// of a single global filter. The global draft flag is copied onto every
// chart only when chartDrafts is set; otherwise each chart keeps its own
// default, so the status chart still leaves drafts out.
func Dashboard(ds *domain.Dataset, f domain.FilterState, chartDrafts bool) *DashboardView {
	b := NewBoard()
	f = f.Normalize()
	b.Dispatch(domain.SetYear(f.Year))
	b.Dispatch(domain.SetHalfYear(f.HalfYear))
	b.Dispatch(domain.SetExcludeDraft(f.ExcludeDraft))
	if chartDrafts {
		for _, dim := range domain.ChartDimensions {
			_ = b.DispatchChart(dim, domain.SetExcludeDraft(f.ExcludeDraft))
		}
	}
	if f.ShowOriginalDepartment {
		_ = b.DispatchChart(domain.DimensionDepartment, domain.SetShowOriginalDepartment(true))
	}
	return b.Render(ds)
}
