// Package spreadsheet reads ticket rows from the exported Excel workbook.
package spreadsheet

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/xuri/excelize/v2"
)

// DefaultSkipRows covers the column header row and the two note rows under it.
const DefaultSkipRows = 3

// Column positions in the exported workbook.
const (
	colSerial = iota
	colApplicant
	colDepartment
	colCreated
	colType
	colSubtype
	colOA
	colMarketing
	colU8C
	colContent
	colAudit
	colProcess
)

var (
	// ErrLegacyFormat is returned for binary (BIFF) .xls workbooks.
	ErrLegacyFormat = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")
	// ErrNoSheet is returned when the workbook has no worksheet.
	ErrNoSheet = errors.New("workbook has no worksheet")
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006.1.2",
	"2006年1月2日",
}

// Reader reads the first worksheet of a workbook.
type Reader struct {
	skipRows int
}

var _ ports.SpreadsheetReader = (*Reader)(nil)

// NewReader creates a reader that skips skipRows leading rows. A
// non-positive value selects DefaultSkipRows.
func NewReader(skipRows int) *Reader {
	if skipRows <= 0 {
		skipRows = DefaultSkipRows
	}
	return &Reader{skipRows: skipRows}
}

// ReadRecords returns every row after the leading rows. Rows are returned as
// they are; callers decide which ones count as tickets.
func (r *Reader) ReadRecords(ctx context.Context, in io.Reader) ([]domain.TicketRecord, error) {
	br := bufio.NewReader(in)
	if head, _ := br.Peek(len(oleMagic)); bytes.Equal(head, oleMagic) {
		return nil, ErrLegacyFormat
	}

	f, err := excelize.OpenReader(br)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	var records []domain.TicketRecord
	for i := 0; rows.Next(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i+1, err)
		}
		if i < r.skipRows || isBlank(cells) {
			continue
		}
		records = append(records, toRecord(cells))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return records, nil
}

func toRecord(cells []string) domain.TicketRecord {
	cell := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	return domain.TicketRecord{
		Serial:        cell(colSerial),
		Applicant:     cell(colApplicant),
		Department:    cell(colDepartment),
		CreatedAt:     ParseDate(cell(colCreated)),
		Type:          cell(colType),
		Subtype:       cell(colSubtype),
		OA:            cell(colOA) == domain.CheckedMark,
		Marketing:     cell(colMarketing) == domain.CheckedMark,
		U8C:           cell(colU8C) == domain.CheckedMark,
		Content:       cell(colContent),
		AuditStatus:   cell(colAudit),
		ProcessStatus: cell(colProcess),
	}
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseDate reads a creation date given either as an Excel serial number or
// as text. Unparsable values yield nil.
func ParseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		return &t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
