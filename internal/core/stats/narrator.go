package stats

import (
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.SimplifiedChinese)

// FilteredCount returns the number of tickets selected by the global filter.
// Half-year counts are estimates from the monthly distribution.
func FilteredCount(ds *domain.Dataset, f domain.FilterState) int {
	f = f.Normalize()

	if f.IsAllYears() {
		if f.ExcludeDraft && ds.YearStatsNoDraft.Labels != nil {
			return ds.YearStatsNoDraft.Sum()
		}
		return ds.Summary.TotalTickets
	}

	count := ds.YearTotal(f.Year, f.ExcludeDraft)
	if f.HasHalfYear() {
		return Estimate(count, Ratio(ds, f.Year, f.HalfYear))
	}
	return count
}

// Narrate returns the summary line for the global filter, e.g.
// "2023年上半年共 60 张工单".
func Narrate(ds *domain.Dataset, f domain.FilterState) string {
	f = f.Normalize()
	count := FilteredCount(ds, f)

	switch {
	case f.IsAllYears():
		return printer.Sprintf("显示全部 %d 张工单", count)
	case f.HasHalfYear():
		return printer.Sprintf("%s年%s共 %d 张工单", f.Year, f.HalfYear.Label(), count)
	default:
		return printer.Sprintf("%s年共 %d 张工单", f.Year, count)
	}
}

// SummaryView is the overview card plus the narrator line.
type SummaryView struct {
	TotalTickets     int                `json:"totalTickets"`
	TotalDepartments int                `json:"totalDepartments"`
	DateRange        domain.DateRange   `json:"dateRange"`
	DateRangeText    string             `json:"dateRangeText"`
	FilteredCount    int                `json:"filteredCount"`
	Narration        string             `json:"narration"`
	Filter           domain.FilterState `json:"filter"`
}

// Summarize builds the summary view for f.
func Summarize(ds *domain.Dataset, f domain.FilterState) *SummaryView {
	f = f.Normalize()
	return &SummaryView{
		TotalTickets:     ds.Summary.TotalTickets,
		TotalDepartments: ds.Summary.TotalDepartments,
		DateRange:        ds.Summary.DateRange,
		DateRangeText:    ds.Summary.DateRange.Start + " 至 " + ds.Summary.DateRange.End,
		FilteredCount:    FilteredCount(ds, f),
		Narration:        Narrate(ds, f),
		Filter:           f,
	}
}
