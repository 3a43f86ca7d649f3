package stats

import (
	"fmt"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/samber/lo"
)

// Series returns the derived series of one dimension for f.
func Series(ds *domain.Dataset, dim domain.Dimension, f domain.FilterState) (domain.Series, error) {
	switch dim {
	case domain.DimensionDepartment:
		return Department(ds, f), nil
	case domain.DimensionDepartmentAll:
		return DepartmentAll(ds, f), nil
	case domain.DimensionSystem:
		return System(ds, f), nil
	case domain.DimensionType:
		return Type(ds, f), nil
	case domain.DimensionStatus:
		return Status(ds, f), nil
	case domain.DimensionMonthly:
		return Monthly(ds, f), nil
	case domain.DimensionYearly:
		return Yearly(ds, f), nil
	case domain.DimensionAudit:
		return Audit(ds, f), nil
	}
	return domain.Series{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownDimension, dim)
}

// System returns ticked-system counts in the fixed category order.
func System(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()

	var s domain.Series
	if f.IsAllYears() {
		s = pick(ds.SystemStats.Series(), ds.SystemStatsNoDraft.Series(), f.ExcludeDraft)
		if s.Labels == nil {
			s = domain.ZeroCategories()
		}
	} else if f.ExcludeDraft && ds.SystemByYearNoDraft != nil {
		s = ds.SystemByYearNoDraft.Get(f.Year)
	} else {
		s = ds.SystemByYear.Get(f.Year)
	}
	return withHalfYear(ds, s, f)
}

// Type returns ticket counts per ticket type.
func Type(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()

	var s domain.Series
	if f.IsAllYears() {
		s = pick(ds.TypeStats, ds.TypeStatsNoDraft, f.ExcludeDraft)
	} else {
		s = pickYear(ds.TypeByYear, ds.TypeByYearNoDraft, f.ExcludeDraft, f.Year)
	}
	return withHalfYear(ds, s, f)
}

// Status returns ticket counts per process status. There is no
// draft-excluded status variant, so drafts are subtracted from the open
// bucket using the audit series of the same slice.
func Status(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()

	status, audit := ds.StatusStats, ds.AuditStats
	if !f.IsAllYears() {
		status, audit = ds.StatusByYear.Get(f.Year), ds.AuditByYear.Get(f.Year)
	}

	ratio := 1.0
	if f.HasHalfYear() {
		ratio = Ratio(ds, f.Year, f.HalfYear)
		status = Adjust(status, ratio)
	} else {
		status = status.Clone()
	}

	if !f.ExcludeDraft {
		return status
	}
	drafts, ok := DraftCount(audit)
	if !ok {
		return status
	}
	if f.HasHalfYear() {
		drafts = Estimate(drafts, ratio)
	}
	return SubtractDrafts(status, drafts)
}

// Audit returns ticket counts per audit status.
func Audit(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()

	s := ds.AuditStats
	if !f.IsAllYears() {
		s = ds.AuditByYear.Get(f.Year)
	}
	s = withHalfYear(ds, s, f)
	if f.ExcludeDraft {
		return DropDraftBucket(s)
	}
	return s
}

// Monthly returns the monthly trend. A half-year selection keeps the exact
// month buckets instead of estimating.
func Monthly(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()

	if f.IsAllYears() {
		return pick(ds.MonthlyStats, ds.MonthlyStatsNoDraft, f.ExcludeDraft).Clone()
	}
	s := pickYear(ds.MonthlyByYear, ds.MonthlyByYearNoDraft, f.ExcludeDraft, f.Year)
	if f.HasHalfYear() {
		return SliceMonthly(s, f.HalfYear)
	}
	return s.Clone()
}

// Yearly returns the ticket count of every year. The year chart always
// shows the whole range, so only the draft flag applies.
func Yearly(ds *domain.Dataset, f domain.FilterState) domain.Series {
	return pick(ds.YearStats, ds.YearStatsNoDraft, f.ExcludeDraft).Clone()
}

func withHalfYear(ds *domain.Dataset, s domain.Series, f domain.FilterState) domain.Series {
	if f.HasHalfYear() {
		return Adjust(s, Ratio(ds, f.Year, f.HalfYear))
	}
	return s.Clone()
}

// ValidateFilter normalizes f and checks it against the dataset's years.
func ValidateFilter(ds *domain.Dataset, f domain.FilterState) (domain.FilterState, error) {
	if f.HalfYear != "" && !f.HalfYear.IsValid() {
		return f, fmt.Errorf("%w: %q", apperrors.ErrInvalidHalfYear, f.HalfYear)
	}
	f = f.Normalize()
	if !f.IsAllYears() && !ds.HasYear(f.Year) {
		return f, fmt.Errorf("%w: %q", apperrors.ErrUnknownYear, f.Year)
	}
	return f, nil
}

// YearOption is one entry of a year selector.
type YearOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// YearOptions lists the selectable years, "all" first.
func YearOptions(ds *domain.Dataset) []YearOption {
	return append(
		[]YearOption{{Value: domain.AllYears, Label: "全部年份"}},
		lo.Map(ds.YearStats.Labels, func(year string, _ int) YearOption {
			return YearOption{Value: year, Label: year + "年"}
		})...,
	)
}

// Unfinished returns the open tickets of the selected year. A half-year
// selection keeps the tickets created in that half.
func Unfinished(ds *domain.Dataset, f domain.FilterState) []domain.UnfinishedTicket {
	f = f.Normalize()

	source := ds.UnfinishedTickets
	if !f.IsAllYears() {
		source = ds.UnfinishedByYear[f.Year]
	}

	from, to := f.HalfYear.Months()
	return lo.Filter(source, func(t domain.UnfinishedTicket, _ int) bool {
		if f.ExcludeDraft && t.IsDraft() {
			return false
		}
		if !f.HasHalfYear() {
			return true
		}
		m, ok := ticketMonth(t.CreatedDate)
		return ok && m >= from && m <= to
	})
}

// ticketMonth reads the month of a "YYYY-MM-DD" date.
func ticketMonth(date string) (int, bool) {
	if len(date) < len("2006-01") {
		return 0, false
	}
	return domain.MonthOf(date[:len("2006-01")])
}
