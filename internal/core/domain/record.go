package domain

import (
	"regexp"
	"strings"
	"time"
)

// TicketRecord is one row of the ticket spreadsheet.
type TicketRecord struct {
	Serial        string
	Applicant     string
	Department    string
	CreatedAt     *time.Time
	Type          string
	Subtype       string
	OA            bool
	Marketing     bool
	U8C           bool
	Content       string
	AuditStatus   string
	ProcessStatus string
}

// IsDraft reports whether the ticket was never submitted.
func (r TicketRecord) IsDraft() bool {
	return r.AuditStatus == DraftLabel
}

// IsUnfinished reports whether the ticket is still being processed.
func (r TicketRecord) IsUnfinished() bool {
	return r.ProcessStatus == OpenStatusLabel
}

// Year returns the creation year, or "" when the date is unknown.
func (r TicketRecord) Year() string {
	if r.CreatedAt == nil {
		return ""
	}
	return r.CreatedAt.Format("2006")
}

// Month returns the creation month as "YYYY-MM", or "" when unknown.
func (r TicketRecord) Month() string {
	if r.CreatedAt == nil {
		return ""
	}
	return r.CreatedAt.Format("2006-01")
}

// Systems returns the system categories ticked on the row, in category order.
func (r TicketRecord) Systems() []string {
	var out []string
	for i, ticked := range []bool{r.OA, r.Marketing, r.U8C} {
		if ticked {
			out = append(out, SystemCategories[i])
		}
	}
	return out
}

var parenthesised = regexp.MustCompile(`\([^)]*\)`)

// CleanDepartment removes parenthesised qualifiers from a department name,
// e.g. "财务部(总部)" becomes "财务部".
func CleanDepartment(name string) string {
	return strings.TrimSpace(parenthesised.ReplaceAllString(name, ""))
}
