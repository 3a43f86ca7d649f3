package services_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Summary: domain.Summary{
			TotalTickets:     30,
			TotalDepartments: 2,
			DateRange:        domain.DateRange{Start: "2022-01-03", End: "2023-12-20"},
		},
		YearStats:        domain.Series{Labels: []string{"2022", "2023"}, Data: []int{10, 20}},
		YearStatsNoDraft: domain.Series{Labels: []string{"2022", "2023"}, Data: []int{9, 18}},
		MonthlyStats:     domain.Series{Labels: []string{"2022-01", "2023-02"}, Data: []int{10, 20}},
		StatusStats:      domain.Series{Labels: []string{"已结束", "未结束"}, Data: []int{25, 5}},
		AuditStats:       domain.Series{Labels: []string{"审核通过", "草稿"}, Data: []int{27, 3}},
		DeptTop10:        domain.Series{Labels: []string{"财务部", "信息部"}, Data: []int{18, 12}},
		MonthlyByYear: domain.YearSeries{
			"2023": {
				Labels: []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"},
				Data:   []int{1, 2, 1, 2, 1, 1, 2, 2, 2, 2, 2, 2},
			},
		},
	}
}

func testSnapshot(fingerprint string) *domain.DatasetSnapshot {
	return &domain.DatasetSnapshot{
		Dataset:     testDataset(),
		Raw:         []byte(`{"fingerprint":"` + fingerprint + `"}`),
		Fingerprint: fingerprint,
		LoadedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
