package stats_test

import (
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ingest"
	"github.com/lorrc/ticket-insights/internal/core/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_LabelsMatchData(t *testing.T) {
	ds := newDataset()
	years := []string{domain.AllYears, "2022", "2023", "2019"}
	halves := []domain.HalfYear{domain.HalfYearAll, domain.HalfYearFirst, domain.HalfYearSecond}

	for _, dim := range domain.Dimensions {
		for _, year := range years {
			for _, half := range halves {
				for _, exclude := range []bool{false, true} {
					for _, original := range []bool{false, true} {
						f := domain.FilterState{Year: year, HalfYear: half, ExcludeDraft: exclude, ShowOriginalDepartment: original}
						s, err := stats.Series(ds, dim, f)
						require.NoError(t, err)
						assert.Len(t, s.Data, len(s.Labels), "%s %+v", dim, f)
						for _, v := range s.Data {
							assert.GreaterOrEqual(t, v, 0, "%s %+v", dim, f)
						}
					}
				}
			}
		}
	}
}

func TestSeries_UnknownDimension(t *testing.T) {
	_, err := stats.Series(newDataset(), domain.Dimension("region"), domain.DefaultFilter())
	assert.ErrorIs(t, err, apperrors.ErrUnknownDimension)
}

func TestMonthly_HalfYearIsPositional(t *testing.T) {
	ds := newDataset()

	first := stats.Monthly(ds, filter("2023", domain.HalfYearFirst))
	assert.Equal(t, months2023[:6], first.Labels)
	assert.Equal(t, []int{10, 10, 10, 10, 10, 10}, first.Data)

	second := stats.Monthly(ds, filter("2023", domain.HalfYearSecond))
	assert.Equal(t, months2023[6:], second.Labels)
}

func TestMonthly_SparseYearKeepsHalvesApart(t *testing.T) {
	created := func(serial, day string) domain.TicketRecord {
		d, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		return domain.TicketRecord{Serial: serial, Department: "财务部", CreatedAt: &d}
	}
	ds, err := ingest.Build([]domain.TicketRecord{
		created("GD-1", "2023-03-02"),
		created("GD-2", "2023-08-15"),
		created("GD-3", "2023-09-30"),
	}, nil, time.Now())
	require.NoError(t, err)

	tests := []struct {
		half   domain.HalfYear
		labels []string
		sum    int
	}{
		{half: domain.HalfYearFirst, labels: months2023[:6], sum: 1},
		{half: domain.HalfYearSecond, labels: months2023[6:], sum: 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.half), func(t *testing.T) {
			f := filter("2023", tt.half)
			monthly := stats.Monthly(ds, f)
			assert.Equal(t, tt.labels, monthly.Labels)
			assert.Equal(t, tt.sum, monthly.Sum())
			assert.Equal(t, stats.FilteredCount(ds, f), monthly.Sum())
		})
	}
}

func TestStatus_DraftExclusion(t *testing.T) {
	ds := newDataset()

	tests := []struct {
		name   string
		filter domain.FilterState
		want   domain.Series
	}{
		{
			name:   "drafts included",
			filter: filter("2023", domain.HalfYearAll),
			want:   statuses(170, 30),
		},
		{
			name:   "drafts subtracted from open",
			filter: domain.FilterState{Year: "2023", ExcludeDraft: true},
			want:   statuses(170, 10),
		},
		{
			name:   "open bucket reaching zero is dropped",
			filter: domain.FilterState{Year: "2022", ExcludeDraft: true},
			want:   series([]string{"已结束"}, 95),
		},
		{
			name:   "all years",
			filter: domain.FilterState{Year: domain.AllYears, ExcludeDraft: true},
			want:   statuses(250, 25),
		},
		{
			name:   "half-year scales status and drafts alike",
			filter: domain.FilterState{Year: "2023", HalfYear: domain.HalfYearFirst, ExcludeDraft: true},
			want:   statuses(51, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.Status(ds, tt.filter))
		})
	}
}

func TestStatus_ExclusionIsIdempotent(t *testing.T) {
	ds := newDataset()
	f := domain.Reduce(domain.Reduce(filter("2023", domain.HalfYearAll), domain.SetExcludeDraft(true)), domain.SetExcludeDraft(true))

	once := stats.Status(ds, domain.FilterState{Year: "2023", HalfYear: domain.HalfYearAll, ExcludeDraft: true})
	assert.Equal(t, once, stats.Status(ds, f))
	assert.Equal(t, once, stats.Status(ds, f))
}

func TestSubtractDrafts(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Series
		drafts int
		want   domain.Series
	}{
		{"more drafts than open", statuses(4, 3), 10, series([]string{"已结束"}, 4)},
		{"no open bucket", series([]string{"已结束"}, 7), 2, series([]string{"已结束"}, 7)},
		{"zero buckets dropped", series([]string{"已结束", domain.OpenStatusLabel, "已撤回"}, 0, 6, 0), 1, series([]string{domain.OpenStatusLabel}, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.SubtractDrafts(tt.status, tt.drafts)
			assert.Equal(t, tt.want, got)
			for _, v := range got.Data {
				assert.Positive(t, v)
			}
		})
	}
}

func TestStatus_NoDraftLabelIsNoop(t *testing.T) {
	ds := newDataset()
	ds.AuditByYear["2023"] = series([]string{"已审核"}, 200)

	assert.Equal(t, statuses(170, 30), stats.Status(ds, domain.FilterState{Year: "2023", ExcludeDraft: true}))
}

func TestAudit_ExcludeDraftDropsBucket(t *testing.T) {
	ds := newDataset()

	assert.Equal(t, audits(275, 25), stats.Audit(ds, domain.DefaultFilter()))
	assert.Equal(t, series([]string{"已审核"}, 275), stats.Audit(ds, domain.FilterState{Year: domain.AllYears, ExcludeDraft: true}))
}

func TestType_UsesMaterializedNoDraft(t *testing.T) {
	ds := newDataset()

	got := stats.Type(ds, domain.FilterState{Year: domain.AllYears, ExcludeDraft: true})
	assert.Equal(t, ds.TypeStatsNoDraft, got)

	first := stats.Type(ds, filter("2023", domain.HalfYearFirst))
	assert.Equal(t, []int{45, 15}, first.Data)
}

func TestSystem(t *testing.T) {
	ds := newDataset()

	assert.Equal(t, []int{120, 80, 40}, stats.System(ds, domain.DefaultFilter()).Data)
	assert.Equal(t, []int{24, 15, 9}, stats.System(ds, filter("2023", domain.HalfYearFirst)).Data)

	missing := stats.System(ds, filter("2022", domain.HalfYearAll))
	assert.Equal(t, domain.SystemCategories, missing.Labels)
	assert.Equal(t, []int{0, 0, 0}, missing.Data)
}

func TestYearly_IgnoresYearSelection(t *testing.T) {
	ds := newDataset()

	assert.Equal(t, ds.YearStats, stats.Yearly(ds, filter("2023", domain.HalfYearFirst)))
	assert.Equal(t, ds.YearStatsNoDraft, stats.Yearly(ds, domain.FilterState{ExcludeDraft: true}))
}

func TestValidateFilter(t *testing.T) {
	ds := newDataset()

	f, err := stats.ValidateFilter(ds, domain.FilterState{Year: "2023", HalfYear: domain.HalfYearFirst})
	require.NoError(t, err)
	assert.Equal(t, domain.HalfYearFirst, f.HalfYear)

	f, err = stats.ValidateFilter(ds, domain.FilterState{HalfYear: domain.HalfYearSecond})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFilter(), f)

	_, err = stats.ValidateFilter(ds, domain.FilterState{Year: "2019"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownYear)

	_, err = stats.ValidateFilter(ds, domain.FilterState{Year: "2023", HalfYear: "q1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidHalfYear)
}

func TestYearOptions(t *testing.T) {
	opts := stats.YearOptions(newDataset())

	require.Len(t, opts, 3)
	assert.Equal(t, stats.YearOption{Value: domain.AllYears, Label: "全部年份"}, opts[0])
	assert.Equal(t, stats.YearOption{Value: "2023", Label: "2023年"}, opts[2])
}

func TestUnfinished(t *testing.T) {
	ds := newDataset()

	serials := func(tickets []domain.UnfinishedTicket) []string {
		out := []string{}
		for _, ticket := range tickets {
			out = append(out, ticket.Serial)
		}
		return out
	}

	assert.Equal(t, []string{"GD-001", "GD-002", "GD-003"}, serials(stats.Unfinished(ds, domain.DefaultFilter())))
	assert.Equal(t, []string{"GD-002", "GD-003"}, serials(stats.Unfinished(ds, filter("2023", domain.HalfYearAll))))
	assert.Equal(t, []string{"GD-002"}, serials(stats.Unfinished(ds, filter("2023", domain.HalfYearFirst))))
	assert.Equal(t, []string{"GD-001", "GD-003"}, serials(stats.Unfinished(ds, domain.FilterState{ExcludeDraft: true})))

	empty := stats.Unfinished(ds, domain.FilterState{Year: "2023", HalfYear: domain.HalfYearFirst, ExcludeDraft: true})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
