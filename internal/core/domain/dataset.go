package domain

import (
	"fmt"
	"sort"
	"time"
)

// AllYears is the sentinel year that selects the all-time aggregates.
const AllYears = "all"

// RequiredDatasetKeys must be present in every dataset document.
var RequiredDatasetKeys = []string{
	"summary",
	"year_stats",
	"monthly_stats",
	"monthly_by_year",
	"status_stats",
	"audit_stats",
	"dept_top10",
}

// DateRange is the inclusive creation-date span of the dataset.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary holds the headline figures.
type Summary struct {
	TotalTickets     int       `json:"total_tickets"`
	TotalDepartments int       `json:"total_departments"`
	DateRange        DateRange `json:"date_range"`
}

// UnfinishedTicket is one open ticket as listed in the drill-down table.
type UnfinishedTicket struct {
	Serial      string `json:"流水号"`
	Content     string `json:"需求内容"`
	Applicant   string `json:"申请人"`
	Department  string `json:"所在部门"`
	CreatedDate string `json:"创建日期"`
	Type        string `json:"工单类型"`
	AuditStatus string `json:"审核状态"`
}

// IsDraft reports whether the ticket is still a draft.
func (t UnfinishedTicket) IsDraft() bool {
	return t.AuditStatus == DraftLabel
}

// Dataset is the pre-aggregated statistics document (ticket_data.json).
// It is immutable once loaded; derived views never modify it.
type Dataset struct {
	Summary Summary `json:"summary"`

	YearStats    Series         `json:"year_stats"`
	MonthlyStats Series         `json:"monthly_stats"`
	TypeStats    Series         `json:"type_stats"`
	StatusStats  Series         `json:"status_stats"`
	AuditStats   Series         `json:"audit_stats"`
	SystemStats  CategorySeries `json:"system_stats"`

	DeptTop10       Series `json:"dept_top10"`
	DeptAll         Series `json:"dept_all"`
	OriginalDeptAll Series `json:"original_dept_all"`

	YearStatsNoDraft       Series         `json:"year_stats_no_draft"`
	MonthlyStatsNoDraft    Series         `json:"monthly_stats_no_draft"`
	TypeStatsNoDraft       Series         `json:"type_stats_no_draft"`
	SystemStatsNoDraft     CategorySeries `json:"system_stats_no_draft"`
	DeptTop10NoDraft       Series         `json:"dept_top10_no_draft"`
	DeptAllNoDraft         Series         `json:"dept_all_no_draft"`
	OriginalDeptAllNoDraft Series         `json:"original_dept_all_no_draft"`

	DeptByYear            YearSeries         `json:"dept_by_year"`
	SystemByYear          CategoryYearSeries `json:"system_by_year"`
	TypeByYear            YearSeries         `json:"type_by_year"`
	StatusByYear          YearSeries         `json:"status_by_year"`
	AuditByYear           YearSeries         `json:"audit_by_year"`
	MonthlyByYear         YearSeries         `json:"monthly_by_year"`
	DeptByYearAll         YearSeries         `json:"dept_by_year_all"`
	OriginalDeptByYearAll YearSeries         `json:"original_dept_by_year_all"`

	DeptByYearNoDraft            YearSeries         `json:"dept_by_year_no_draft"`
	SystemByYearNoDraft          CategoryYearSeries `json:"system_by_year_no_draft"`
	TypeByYearNoDraft            YearSeries         `json:"type_by_year_no_draft"`
	MonthlyByYearNoDraft         YearSeries         `json:"monthly_by_year_no_draft"`
	DeptByYearAllNoDraft         YearSeries         `json:"dept_by_year_all_no_draft"`
	OriginalDeptByYearAllNoDraft YearSeries         `json:"original_dept_by_year_all_no_draft"`

	UnfinishedTickets []UnfinishedTicket            `json:"unfinished_tickets"`
	UnfinishedByYear  map[string][]UnfinishedTicket `json:"unfinished_by_year"`

	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// DatasetSnapshot is a loaded dataset together with its source bytes.
type DatasetSnapshot struct {
	Dataset     *Dataset
	Raw         []byte
	Fingerprint string
	LoadedAt    time.Time
}

// Years returns the year labels in dataset order.
func (d *Dataset) Years() []string {
	out := make([]string, len(d.YearStats.Labels))
	copy(out, d.YearStats.Labels)
	return out
}

// HasYear reports whether year is one of the dataset's year labels.
func (d *Dataset) HasYear(year string) bool {
	return d.YearStats.IndexOf(year) >= 0
}

// YearTotal returns the ticket count of one year, drafts included or not.
func (d *Dataset) YearTotal(year string, excludeDraft bool) int {
	source := d.YearStats
	if excludeDraft && !d.YearStatsNoDraft.IsEmpty() {
		source = d.YearStatsNoDraft
	}
	v, _ := source.Value(year)
	return v
}

// Validate checks every series for label/data parity and non-negative counts.
func (d *Dataset) Validate() error {
	flat := map[string]Series{
		"year_stats":                 d.YearStats,
		"monthly_stats":              d.MonthlyStats,
		"type_stats":                 d.TypeStats,
		"status_stats":               d.StatusStats,
		"audit_stats":                d.AuditStats,
		"system_stats":               d.SystemStats.Series(),
		"dept_top10":                 d.DeptTop10,
		"dept_all":                   d.DeptAll,
		"original_dept_all":          d.OriginalDeptAll,
		"year_stats_no_draft":        d.YearStatsNoDraft,
		"monthly_stats_no_draft":     d.MonthlyStatsNoDraft,
		"type_stats_no_draft":        d.TypeStatsNoDraft,
		"system_stats_no_draft":      d.SystemStatsNoDraft.Series(),
		"dept_top10_no_draft":        d.DeptTop10NoDraft,
		"dept_all_no_draft":          d.DeptAllNoDraft,
		"original_dept_all_no_draft": d.OriginalDeptAllNoDraft,
	}
	for _, key := range sortedKeys(flat) {
		if err := flat[key].Validate(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	byYear := map[string]YearSeries{
		"dept_by_year":                       d.DeptByYear,
		"type_by_year":                       d.TypeByYear,
		"status_by_year":                     d.StatusByYear,
		"audit_by_year":                      d.AuditByYear,
		"monthly_by_year":                    d.MonthlyByYear,
		"dept_by_year_all":                   d.DeptByYearAll,
		"original_dept_by_year_all":          d.OriginalDeptByYearAll,
		"dept_by_year_no_draft":              d.DeptByYearNoDraft,
		"type_by_year_no_draft":              d.TypeByYearNoDraft,
		"monthly_by_year_no_draft":           d.MonthlyByYearNoDraft,
		"dept_by_year_all_no_draft":          d.DeptByYearAllNoDraft,
		"original_dept_by_year_all_no_draft": d.OriginalDeptByYearAllNoDraft,
	}
	for _, key := range sortedKeys(byYear) {
		for _, year := range sortedKeys(byYear[key]) {
			if err := byYear[key][year].Validate(); err != nil {
				return fmt.Errorf("%s[%s]: %w", key, year, err)
			}
		}
	}

	for key, m := range map[string]CategoryYearSeries{
		"system_by_year":          d.SystemByYear,
		"system_by_year_no_draft": d.SystemByYearNoDraft,
	} {
		for year, s := range m {
			if err := s.Series().Validate(); err != nil {
				return fmt.Errorf("%s[%s]: %w", key, year, err)
			}
		}
	}

	for i, label := range d.MonthlyStats.Labels {
		if _, ok := MonthOf(label); !ok {
			return fmt.Errorf("monthly_stats: label %d (%q) is not a YYYY-MM month", i, label)
		}
	}

	return nil
}

// TotalsConsistent reports whether the yearly counts add up to the summary
// total. Tickets without a creation date break this without being invalid.
func (d *Dataset) TotalsConsistent() bool {
	return d.YearStats.Sum() == d.Summary.TotalTickets
}

// MonthOf extracts the month number from a "YYYY-MM" label.
func MonthOf(label string) (int, bool) {
	sep := -1
	for i := 0; i < len(label); i++ {
		if label[i] == '-' {
			sep = i
			break
		}
	}
	if sep < 0 || sep == len(label)-1 {
		return 0, false
	}

	month := 0
	for _, r := range label[sep+1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		month = month*10 + int(r-'0')
		if month > 12 {
			return 0, false
		}
	}
	if month < 1 {
		return 0, false
	}
	return month, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
