package stats_test

import (
	"testing"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/stats"
	"github.com/stretchr/testify/assert"
)

func TestDepartment_TopTenTruncation(t *testing.T) {
	ds := newDataset()

	tests := []struct {
		name      string
		filter    domain.FilterState
		chartLen  int
		fullLen   int
		firstFull int
	}{
		{
			name:      "all years mapped",
			filter:    domain.DefaultFilter(),
			chartLen:  10,
			fullLen:   12,
			firstFull: 40,
		},
		{
			name:      "all years original",
			filter:    domain.FilterState{ShowOriginalDepartment: true},
			chartLen:  10,
			fullLen:   14,
			firstFull: 20,
		},
		{
			name:      "single year mapped",
			filter:    filter("2023", domain.HalfYearAll),
			chartLen:  10,
			fullLen:   12,
			firstFull: 30,
		},
		{
			name:      "single year original with half-year",
			filter:    domain.FilterState{Year: "2023", HalfYear: domain.HalfYearFirst, ShowOriginalDepartment: true},
			chartLen:  10,
			fullLen:   13,
			firstFull: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := stats.Department(ds, tt.filter)
			full := stats.DepartmentAll(ds, tt.filter)

			assert.LessOrEqual(t, chart.Len(), stats.TopN)
			assert.Equal(t, tt.chartLen, chart.Len())
			assert.Equal(t, tt.fullLen, full.Len())
			assert.Equal(t, tt.firstFull, full.Data[0])
			assert.Equal(t, full.Head(stats.TopN), chart)
		})
	}
}

func TestDepartmentAll_MatchesTotalDepartments(t *testing.T) {
	ds := newDataset()
	assert.Equal(t, ds.Summary.TotalDepartments, stats.DepartmentAll(ds, domain.DefaultFilter()).Len())
}

func TestDepartment_FallsBackToFullListing(t *testing.T) {
	ds := newDataset()
	ds.DeptTop10 = domain.Series{}

	chart := stats.Department(ds, domain.DefaultFilter())
	assert.Equal(t, ds.DeptAll.Head(stats.TopN), chart)
}

func TestDepartment_ExcludeDraftSelectsVariant(t *testing.T) {
	ds := newDataset()
	ds.DeptTop10NoDraft = departments(9, 8, 7)
	ds.DeptByYearNoDraft = domain.YearSeries{"2022": departments(3)}

	assert.Equal(t, departments(9, 8, 7), stats.Department(ds, domain.FilterState{ExcludeDraft: true}))
	assert.Equal(t, ds.DeptTop10, stats.Department(ds, domain.DefaultFilter()))

	// The per-year variant exists, so a year missing from it is empty
	// rather than falling back to the draft-inclusive counts.
	assert.True(t, stats.Department(ds, domain.FilterState{Year: "2023", ExcludeDraft: true}).IsEmpty())
}

func TestDepartmentAll_DoesNotResort(t *testing.T) {
	ds := newDataset()
	ds.DeptAll = series([]string{"乙", "甲", "丙"}, 1, 5, 3)

	assert.Equal(t, ds.DeptAll, stats.DepartmentAll(ds, domain.DefaultFilter()))
}
