// Package ingest aggregates spreadsheet ticket rows into the dataset
// document the dashboard serves.
package ingest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/samber/lo"
)

// ErrNoRecords is returned when no row carries a serial number.
var ErrNoRecords = errors.New("spreadsheet contains no ticket rows")

const dateLayout = "2006-01-02"

// identity maps every department to itself.
type identity struct{}

func (identity) Map(department string) string { return department }

// Build aggregates records into a dataset. Rows without a serial number are
// skipped; rows without a creation date count toward the all-time series only.
// A nil mapper keeps department names as they are.
func Build(records []domain.TicketRecord, mapper ports.DepartmentMapper, now time.Time) (*domain.Dataset, error) {
	if mapper == nil {
		mapper = identity{}
	}

	rows := make([]domain.TicketRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Serial) == "" {
			continue
		}
		r.Department = domain.CleanDepartment(r.Department)
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	mapped := func(r domain.TicketRecord) string {
		if r.Department == "" {
			return ""
		}
		return mapper.Map(r.Department)
	}
	counted := func(key func(domain.TicketRecord) string) func([]domain.TicketRecord) domain.Series {
		return func(rs []domain.TicketRecord) domain.Series { return countBy(rs, key) }
	}
	topDepartments := func(rs []domain.TicketRecord) domain.Series {
		return countBy(rs, mapped).Head(domain.DepartmentTopN)
	}
	months := func(rs []domain.TicketRecord) domain.Series {
		return yearMonths(rs[0].Year(), rs)
	}

	noDraft := lo.Filter(rows, func(r domain.TicketRecord, _ int) bool { return !r.IsDraft() })
	byYear := groupByYear(rows)
	byYearNoDraft := groupByYear(noDraft)

	deptAll := countBy(rows, mapped)
	deptAllNoDraft := countBy(noDraft, mapped)
	generatedAt := now.UTC()

	ds := &domain.Dataset{
		Summary: domain.Summary{
			TotalTickets:     len(rows),
			TotalDepartments: deptAll.Len(),
			DateRange:        dateRange(rows),
		},

		YearStats:    countSorted(rows, domain.TicketRecord.Year),
		MonthlyStats: countSorted(rows, domain.TicketRecord.Month),
		TypeStats:    countBy(rows, ticketType),
		StatusStats:  countBy(rows, processStatus),
		AuditStats:   countBy(rows, auditStatus),
		SystemStats:  countSystems(rows),

		DeptTop10:       deptAll.Head(domain.DepartmentTopN),
		DeptAll:         deptAll,
		OriginalDeptAll: countBy(rows, originalDepartment),

		YearStatsNoDraft:       countSorted(noDraft, domain.TicketRecord.Year),
		MonthlyStatsNoDraft:    countSorted(noDraft, domain.TicketRecord.Month),
		TypeStatsNoDraft:       countBy(noDraft, ticketType),
		SystemStatsNoDraft:     countSystems(noDraft),
		DeptTop10NoDraft:       deptAllNoDraft.Head(domain.DepartmentTopN),
		DeptAllNoDraft:         deptAllNoDraft,
		OriginalDeptAllNoDraft: countBy(noDraft, originalDepartment),

		DeptByYear:            perYear(byYear, topDepartments),
		SystemByYear:          perYearCategories(byYear),
		TypeByYear:            perYear(byYear, counted(ticketType)),
		StatusByYear:          perYear(byYear, counted(processStatus)),
		AuditByYear:           perYear(byYear, counted(auditStatus)),
		MonthlyByYear:         perYear(byYear, months),
		DeptByYearAll:         perYear(byYear, counted(mapped)),
		OriginalDeptByYearAll: perYear(byYear, counted(originalDepartment)),

		DeptByYearNoDraft:            perYear(byYearNoDraft, topDepartments),
		SystemByYearNoDraft:          perYearCategories(byYearNoDraft),
		TypeByYearNoDraft:            perYear(byYearNoDraft, counted(ticketType)),
		MonthlyByYearNoDraft:         perYear(byYearNoDraft, months),
		DeptByYearAllNoDraft:         perYear(byYearNoDraft, counted(mapped)),
		OriginalDeptByYearAllNoDraft: perYear(byYearNoDraft, counted(originalDepartment)),

		UnfinishedTickets: unfinished(rows),
		UnfinishedByYear:  lo.MapValues(byYear, func(rs []domain.TicketRecord, _ string) []domain.UnfinishedTicket { return unfinished(rs) }),

		GeneratedAt: &generatedAt,
	}

	return ds, nil
}

func originalDepartment(r domain.TicketRecord) string { return r.Department }
func ticketType(r domain.TicketRecord) string { return r.Type }
func processStatus(r domain.TicketRecord) string { return r.ProcessStatus }
func auditStatus(r domain.TicketRecord) string { return r.AuditStatus }

// countBy counts rows per key, most frequent first. Ties keep the order in
// which the keys first appear. Empty keys are not counted.
func countBy(rows []domain.TicketRecord, key func(domain.TicketRecord) string) domain.Series {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return toSeries(order, counts)
}

// countSorted counts rows per key with keys in ascending order.
func countSorted(rows []domain.TicketRecord, key func(domain.TicketRecord) string) domain.Series {
	counts := lo.CountValuesBy(lo.Filter(rows, func(r domain.TicketRecord, _ int) bool { return key(r) != "" }), key)
	order := lo.Keys(counts)
	sort.Strings(order)
	return toSeries(order, counts)
}

// yearMonths counts rows of one year per month. All twelve months are
// present, so positions 0-5 are always January to June.
func yearMonths(year string, rows []domain.TicketRecord) domain.Series {
	counts := lo.CountValuesBy(rows, domain.TicketRecord.Month)
	order := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		order = append(order, fmt.Sprintf("%s-%02d", year, m))
	}
	return toSeries(order, counts)
}

func toSeries(order []string, counts map[string]int) domain.Series {
	out := domain.Series{Labels: make([]string, 0, len(order)), Data: make([]int, 0, len(order))}
	for _, k := range order {
		out.Labels = append(out.Labels, k)
		out.Data = append(out.Data, counts[k])
	}
	return out
}

func countSystems(rows []domain.TicketRecord) domain.CategorySeries {
	s := domain.ZeroCategories()
	for _, r := range rows {
		for i, ticked := range []bool{r.OA, r.Marketing, r.U8C} {
			if ticked {
				s.Data[i]++
			}
		}
	}
	return domain.CategorySeries(s)
}

func groupByYear(rows []domain.TicketRecord) map[string][]domain.TicketRecord {
	dated := lo.Filter(rows, func(r domain.TicketRecord, _ int) bool { return r.CreatedAt != nil })
	return lo.GroupBy(dated, domain.TicketRecord.Year)
}

func perYear(groups map[string][]domain.TicketRecord, fn func([]domain.TicketRecord) domain.Series) domain.YearSeries {
	out := make(domain.YearSeries, len(groups))
	for year, rs := range groups {
		out[year] = fn(rs)
	}
	return out
}

func perYearCategories(groups map[string][]domain.TicketRecord) domain.CategoryYearSeries {
	out := make(domain.CategoryYearSeries, len(groups))
	for year, rs := range groups {
		out[year] = countSystems(rs)
	}
	return out
}

func unfinished(rows []domain.TicketRecord) []domain.UnfinishedTicket {
	open := lo.Filter(rows, func(r domain.TicketRecord, _ int) bool { return r.IsUnfinished() })
	return lo.Map(open, func(r domain.TicketRecord, _ int) domain.UnfinishedTicket {
		created := ""
		if r.CreatedAt != nil {
			created = r.CreatedAt.Format(dateLayout)
		}
		return domain.UnfinishedTicket{
			Serial:      r.Serial,
			Content:     r.Content,
			Applicant:   r.Applicant,
			Department:  r.Department,
			CreatedDate: created,
			Type:        r.Type,
			AuditStatus: r.AuditStatus,
		}
	})
}

func dateRange(rows []domain.TicketRecord) domain.DateRange {
	var first, last *time.Time
	for _, r := range rows {
		if r.CreatedAt == nil {
			continue
		}
		if first == nil || r.CreatedAt.Before(*first) {
			first = r.CreatedAt
		}
		if last == nil || r.CreatedAt.After(*last) {
			last = r.CreatedAt
		}
	}
	if first == nil {
		return domain.DateRange{Start: "N/A", End: "N/A"}
	}
	return domain.DateRange{Start: first.Format(dateLayout), End: last.Format(dateLayout)}
}
