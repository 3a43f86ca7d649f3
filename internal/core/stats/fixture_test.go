package stats_test

import (
	"fmt"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

var months2023 = []string{
	"2023-01", "2023-02", "2023-03", "2023-04", "2023-05", "2023-06",
	"2023-07", "2023-08", "2023-09", "2023-10", "2023-11", "2023-12",
}

func series(labels []string, data ...int) domain.Series {
	return domain.Series{Labels: labels, Data: data}
}

func departments(counts ...int) domain.Series {
	s := domain.EmptySeries()
	for i, c := range counts {
		s.Labels = append(s.Labels, fmt.Sprintf("部门%02d", i+1))
		s.Data = append(s.Data, c)
	}
	return s
}

func statuses(done, open int) domain.Series {
	return series([]string{"已结束", domain.OpenStatusLabel}, done, open)
}

func audits(approved, drafts int) domain.Series {
	return series([]string{"已审核", domain.DraftLabel}, approved, drafts)
}

func categories(oa, marketing, u8c int) domain.CategorySeries {
	return domain.CategorySeries(series(domain.SystemCategories, oa, marketing, u8c))
}

// newDataset builds a two-year dataset: 100 tickets in 2022 without a usable
// monthly breakdown and 200 tickets in 2023 split 60/140 between the halves.
func newDataset() *domain.Dataset {
	deptAll := departments(40, 36, 32, 28, 24, 20, 16, 12, 8, 6, 4, 2)
	dept2023 := departments(30, 27, 24, 21, 18, 15, 12, 9, 6, 4, 2, 1)

	return &domain.Dataset{
		Summary: domain.Summary{
			TotalTickets:     300,
			TotalDepartments: 12,
			DateRange:        domain.DateRange{Start: "2022-01-04", End: "2023-12-28"},
		},

		YearStats:        series([]string{"2022", "2023"}, 100, 200),
		YearStatsNoDraft: series([]string{"2022", "2023"}, 95, 180),
		MonthlyStats:     series(months2023, 10, 10, 10, 10, 10, 10, 20, 20, 20, 20, 20, 10),
		TypeStats:        series([]string{"需求", "缺陷"}, 200, 100),
		TypeStatsNoDraft: series([]string{"需求", "缺陷"}, 180, 95),
		StatusStats:      statuses(250, 50),
		AuditStats:       audits(275, 25),
		SystemStats:      categories(120, 80, 40),

		DeptTop10:       deptAll.Head(10),
		DeptAll:         deptAll,
		OriginalDeptAll: departments(20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7),

		MonthlyByYear: domain.YearSeries{
			"2022": series([]string{"2022-03", "2022-09"}, 0, 0),
			"2023": series(months2023, 10, 10, 10, 10, 10, 10, 20, 20, 20, 20, 20, 10),
		},
		TypeByYear: domain.YearSeries{
			"2022": series([]string{"需求", "缺陷"}, 50, 30),
			"2023": series([]string{"需求", "缺陷"}, 150, 50),
		},
		StatusByYear: domain.YearSeries{
			"2022": statuses(95, 5),
			"2023": statuses(170, 30),
		},
		AuditByYear: domain.YearSeries{
			"2022": audits(95, 5),
			"2023": audits(180, 20),
		},
		SystemByYear: domain.CategoryYearSeries{
			"2023": categories(80, 50, 30),
		},
		DeptByYear:            domain.YearSeries{"2023": dept2023.Head(10)},
		DeptByYearAll:         domain.YearSeries{"2023": dept2023},
		OriginalDeptByYearAll: domain.YearSeries{"2023": departments(13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1)},

		UnfinishedTickets: []domain.UnfinishedTicket{
			{Serial: "GD-001", CreatedDate: "2022-05-10", AuditStatus: "已审核"},
			{Serial: "GD-002", CreatedDate: "2023-02-01", AuditStatus: domain.DraftLabel},
			{Serial: "GD-003", CreatedDate: "2023-08-15", AuditStatus: "已审核"},
		},
		UnfinishedByYear: map[string][]domain.UnfinishedTicket{
			"2022": {
				{Serial: "GD-001", CreatedDate: "2022-05-10", AuditStatus: "已审核"},
			},
			"2023": {
				{Serial: "GD-002", CreatedDate: "2023-02-01", AuditStatus: domain.DraftLabel},
				{Serial: "GD-003", CreatedDate: "2023-08-15", AuditStatus: "已审核"},
			},
		},
	}
}

func filter(year string, half domain.HalfYear) domain.FilterState {
	return domain.FilterState{Year: year, HalfYear: half}
}
