package ingest_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapperFunc func(string) string

func (f mapperFunc) Map(department string) string { return f(department) }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func record(serial, dept, created, audit, process string) domain.TicketRecord {
	r := domain.TicketRecord{
		Serial:        serial,
		Applicant:     "张三",
		Department:    dept,
		Type:          "需求",
		Content:       "内容" + serial,
		AuditStatus:   audit,
		ProcessStatus: process,
	}
	if created != "" {
		r.CreatedAt = date(created)
	}
	return r
}

func sampleRecords() []domain.TicketRecord {
	oa := record("GD-001", "财务部(总部)", "2022-03-01", "已审核", "已结束")
	oa.OA = true
	both := record("GD-002", "财务部", "2022-09-12", "已审核", "已结束")
	both.OA, both.U8C = true, true
	draft := record("GD-003", "销售一部(华东)", "2023-02-20", domain.DraftLabel, domain.OpenStatusLabel)
	draft.Marketing = true
	open := record("GD-004", "销售二部", "2023-08-05", "已审核", domain.OpenStatusLabel)
	open.Type = "缺陷"

	return []domain.TicketRecord{
		oa,
		both,
		draft,
		open,
		record("", "财务部", "2023-01-01", "已审核", "已结束"),
		record("GD-005", "信息中心", "", "已审核", "已结束"),
	}
}

func TestBuild_Summary(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	ds, err := ingest.Build(sampleRecords(), nil, now)
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Summary.TotalTickets)
	assert.Equal(t, 4, ds.Summary.TotalDepartments)
	assert.Equal(t, domain.DateRange{Start: "2022-03-01", End: "2023-08-05"}, ds.Summary.DateRange)
	require.NotNil(t, ds.GeneratedAt)
	assert.Equal(t, now, *ds.GeneratedAt)
	assert.NoError(t, ds.Validate())
}

func TestBuild_CleansDepartmentsAndSortsByCount(t *testing.T) {
	ds, err := ingest.Build(sampleRecords(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"财务部", "销售一部", "销售二部", "信息中心"}, ds.OriginalDeptAll.Labels)
	assert.Equal(t, []int{2, 1, 1, 1}, ds.OriginalDeptAll.Data)
	for _, label := range ds.DeptAll.Labels {
		assert.NotContains(t, label, "(")
	}
}

func TestBuild_MapsDepartments(t *testing.T) {
	mapper := mapperFunc(func(dept string) string {
		if dept == "销售一部" || dept == "销售二部" {
			return "销售中心"
		}
		return dept
	})

	ds, err := ingest.Build(sampleRecords(), mapper, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.Series{Labels: []string{"财务部", "销售中心", "信息中心"}, Data: []int{2, 2, 1}}, ds.DeptAll)
	assert.Equal(t, 3, ds.Summary.TotalDepartments)
	assert.Equal(t, []string{"销售一部", "销售二部"}, ds.OriginalDeptByYearAll["2023"].Labels)
	assert.Equal(t, []string{"销售中心"}, ds.DeptByYearAll["2023"].Labels)
}

func TestBuild_TopTen(t *testing.T) {
	var records []domain.TicketRecord
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, record(fmt.Sprintf("GD-%d-%d", i, j), fmt.Sprintf("部门%02d", i), "2023-05-01", "已审核", "已结束"))
		}
	}

	ds, err := ingest.Build(records, nil, time.Now())
	require.NoError(t, err)

	assert.Len(t, ds.DeptTop10.Labels, 10)
	assert.Len(t, ds.DeptAll.Labels, 15)
	assert.Equal(t, "部门14", ds.DeptTop10.Labels[0])
	assert.Equal(t, 15, ds.DeptTop10.Data[0])
	assert.Len(t, ds.DeptByYear["2023"].Labels, 10)
	assert.Len(t, ds.DeptByYearAll["2023"].Labels, 15)
	assert.Equal(t, ds.Summary.TotalTickets, ds.YearStats.Sum())
}

func TestBuild_YearAndMonth(t *testing.T) {
	ds, err := ingest.Build(sampleRecords(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.Series{Labels: []string{"2022", "2023"}, Data: []int{2, 2}}, ds.YearStats)
	assert.Equal(t, []string{"2022-03", "2022-09", "2023-02", "2023-08"}, ds.MonthlyStats.Labels)
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0}, ds.MonthlyByYear["2023"].Data)
	// The undated row only shows up in the all-time totals.
	assert.Equal(t, ds.Summary.TotalTickets-1, ds.YearStats.Sum())
}

func TestBuild_MonthlyByYearCoversEveryMonth(t *testing.T) {
	records := []domain.TicketRecord{
		record("GD-101", "财务部", "2023-03-02", "已审核", "已结束"),
		record("GD-102", "财务部", "2023-08-15", "已审核", "已结束"),
		record("GD-103", "财务部", "2023-09-30", domain.DraftLabel, domain.OpenStatusLabel),
	}

	ds, err := ingest.Build(records, nil, time.Now())
	require.NoError(t, err)

	want := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		want = append(want, fmt.Sprintf("2023-%02d", m))
	}

	tests := []struct {
		name   string
		series domain.Series
		data   []int
	}{
		{name: "raw", series: ds.MonthlyByYear["2023"], data: []int{0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 0, 0}},
		{name: "no draft", series: ds.MonthlyByYearNoDraft["2023"], data: []int{0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, tt.series.Labels)
			assert.Equal(t, tt.data, tt.series.Data)
		})
	}
	// The all-time series only lists months that have tickets.
	assert.Equal(t, []string{"2023-03", "2023-08", "2023-09"}, ds.MonthlyStats.Labels)
}

func TestBuild_DraftVariants(t *testing.T) {
	ds, err := ingest.Build(sampleRecords(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.Series{Labels: []string{"2022", "2023"}, Data: []int{2, 1}}, ds.YearStatsNoDraft)
	assert.NotContains(t, ds.DeptAllNoDraft.Labels, "销售一部")
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0}, ds.MonthlyByYearNoDraft["2023"].Data)
	assert.Equal(t, []int{2, 0, 1}, ds.SystemStatsNoDraft.Data)

	drafts, ok := ds.AuditStats.Value(domain.DraftLabel)
	assert.True(t, ok)
	assert.Equal(t, 1, drafts)
}

func TestBuild_Systems(t *testing.T) {
	ds, err := ingest.Build(sampleRecords(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.SystemCategories, ds.SystemStats.Labels)
	assert.Equal(t, []int{2, 1, 1}, ds.SystemStats.Data)
	assert.Equal(t, []int{2, 0, 1}, ds.SystemByYear["2022"].Data)
	assert.Equal(t, []int{0, 1, 0}, ds.SystemByYear["2023"].Data)
}

func TestBuild_Unfinished(t *testing.T) {
	ds, err := ingest.Build(sampleRecords(), nil, time.Now())
	require.NoError(t, err)

	require.Len(t, ds.UnfinishedTickets, 2)
	assert.Equal(t, domain.UnfinishedTicket{
		Serial:      "GD-003",
		Content:     "内容GD-003",
		Applicant:   "张三",
		Department:  "销售一部",
		CreatedDate: "2023-02-20",
		Type:        "需求",
		AuditStatus: domain.DraftLabel,
	}, ds.UnfinishedTickets[0])
	assert.Len(t, ds.UnfinishedByYear["2023"], 2)
	assert.Empty(t, ds.UnfinishedByYear["2022"])
}

func TestBuild_NoRecords(t *testing.T) {
	_, err := ingest.Build([]domain.TicketRecord{record("", "财务部", "2023-01-01", "", "")}, nil, time.Now())
	assert.ErrorIs(t, err, ingest.ErrNoRecords)
}
