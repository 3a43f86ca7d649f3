package stats_test

import (
	"testing"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/stats"
	"github.com/stretchr/testify/assert"
)

func TestNarrate(t *testing.T) {
	ds := newDataset()

	tests := []struct {
		name   string
		filter domain.FilterState
		count  int
		want   string
	}{
		{"all years", domain.DefaultFilter(), 300, "显示全部 300 张工单"},
		{"all years without drafts", domain.FilterState{ExcludeDraft: true}, 275, "显示全部 275 张工单"},
		{"single year", filter("2023", domain.HalfYearAll), 200, "2023年共 200 张工单"},
		{"first half", filter("2023", domain.HalfYearFirst), 60, "2023年上半年共 60 张工单"},
		{"second half", filter("2023", domain.HalfYearSecond), 140, "2023年下半年共 140 张工单"},
		{"default ratio", filter("2022", domain.HalfYearSecond), 40, "2022年下半年共 40 张工单"},
		{"single year without drafts", domain.FilterState{Year: "2023", ExcludeDraft: true}, 180, "2023年共 180 张工单"},
		{"unknown year", filter("2019", domain.HalfYearAll), 0, "2019年共 0 张工单"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.count, stats.FilteredCount(ds, tt.filter))
			assert.Equal(t, tt.want, stats.Narrate(ds, tt.filter))
		})
	}
}

// The 2023 first half holds 60 of 200 tickets: the ratio is 0.3 and every
// estimated dimension uses the same ratio.
func TestNarrate_HalfYearScenario(t *testing.T) {
	ds := newDataset()
	f := filter("2023", domain.HalfYearFirst)

	assert.InDelta(t, 0.3, stats.Ratio(ds, "2023", domain.HalfYearFirst), 1e-9)
	assert.Equal(t, stats.Monthly(ds, f).Sum(), stats.FilteredCount(ds, f))
	assert.Equal(t, "2023年上半年共 60 张工单", stats.Narrate(ds, f))
	assert.Equal(t, []int{45, 15}, stats.Type(ds, f).Data)
}

func TestNarrate_GroupsThousands(t *testing.T) {
	ds := newDataset()
	ds.Summary.TotalTickets = 12345

	assert.Equal(t, "显示全部 12,345 张工单", stats.Narrate(ds, domain.DefaultFilter()))
}

func TestSummarize(t *testing.T) {
	view := stats.Summarize(newDataset(), domain.FilterState{Year: "2023", HalfYear: domain.HalfYearFirst})

	assert.Equal(t, 300, view.TotalTickets)
	assert.Equal(t, 12, view.TotalDepartments)
	assert.Equal(t, "2022-01-04 至 2023-12-28", view.DateRangeText)
	assert.Equal(t, 60, view.FilteredCount)
	assert.Equal(t, "2023年上半年共 60 张工单", view.Narration)
}
