package stats

import (
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// TopN is the length of the department chart.
const TopN = domain.DepartmentTopN

// Department returns the department chart series: at most TopN entries,
// truncated after any half-year adjustment.
func Department(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()
	s := departmentSource(ds, f, false)
	if f.HasHalfYear() {
		s = Adjust(s, Ratio(ds, f.Year, f.HalfYear))
	}
	return s.Head(TopN)
}

// DepartmentAll returns the complete department listing for the drill-down
// view. Ingestion already sorted it by count, so it is neither truncated nor
// re-sorted here.
func DepartmentAll(ds *domain.Dataset, f domain.FilterState) domain.Series {
	f = f.Normalize()
	s := departmentSource(ds, f, true)
	if f.HasHalfYear() {
		return Adjust(s, Ratio(ds, f.Year, f.HalfYear))
	}
	return s.Clone()
}

func departmentSource(ds *domain.Dataset, f domain.FilterState, full bool) domain.Series {
	ex := f.ExcludeDraft

	if f.IsAllYears() {
		switch {
		case f.ShowOriginalDepartment:
			return pick(ds.OriginalDeptAll, ds.OriginalDeptAllNoDraft, ex)
		case full:
			s := pick(ds.DeptAll, ds.DeptAllNoDraft, ex)
			if s.Labels == nil {
				s = pick(ds.DeptTop10, ds.DeptTop10NoDraft, ex)
			}
			return s
		default:
			s := pick(ds.DeptTop10, ds.DeptTop10NoDraft, ex)
			if s.Labels == nil {
				s = pick(ds.DeptAll, ds.DeptAllNoDraft, ex)
			}
			return s
		}
	}

	switch {
	case f.ShowOriginalDepartment:
		return pickYear(ds.OriginalDeptByYearAll, ds.OriginalDeptByYearAllNoDraft, ex, f.Year)
	case full:
		if ds.DeptByYearAll == nil {
			return pickYear(ds.DeptByYear, ds.DeptByYearNoDraft, ex, f.Year)
		}
		return pickYear(ds.DeptByYearAll, ds.DeptByYearAllNoDraft, ex, f.Year)
	default:
		return pickYear(ds.DeptByYear, ds.DeptByYearNoDraft, ex, f.Year)
	}
}
