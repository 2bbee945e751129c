// Package spreadsheet reads and writes the incident workbook used for bulk
// import, export and the downloadable template.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheet   = "Incident Reports"
	TemplateSheet = "Incident Reports Template"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrNoWorksheet = errors.New("spreadsheet: no worksheet found")

// IncidentRow is one imported data row. Empty strings mean the cell was blank.
type IncidentRow struct {
	Title         string
	Description   string
	Location      string
	Severity      string
	Status        string
	Reporter      string
	ExtraComments string
	Date          *time.Time
	IncidentType  string
}

type ExportRow struct {
	ID            string
	ReportNumber  string
	Title         string
	Description   string
	Location      string
	Category      string
	IncidentType  string
	Points        decimal.Decimal
	Severity      string
	Status        string
	Reporter      string
	ExtraComments string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var importHeader = []string{
	"Title", "Description", "Location", "Severity", "Status",
	"Reporter", "Extra Comments", "Date", "Incident Type",
}

var exportHeader = []string{
	"ID", "Report Number", "Title", "Description", "Location", "Category",
	"Incident Type", "Points", "Severity", "Status", "Reporter",
	"Extra Comments", "Date", "Created At", "Updated At",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06 15:04",
}

// ReadIncidentRows reads the first worksheet, skipping the header row. It
// returns the non-blank data rows and the number of data rows seen.
func ReadIncidentRows(r io.Reader) ([]IncidentRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("spreadsheet: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrNoWorksheet
	}

	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, fmt.Errorf("spreadsheet: read rows: %w", err)
	}
	if len(raw) <= 1 {
		return nil, 0, nil
	}

	rows := make([]IncidentRow, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		row := IncidentRow{
			Title:         cell(cells, 0),
			Description:   cell(cells, 1),
			Location:      cell(cells, 2),
			Severity:      cell(cells, 3),
			Status:        cell(cells, 4),
			Reporter:      cell(cells, 5),
			ExtraComments: cell(cells, 6),
			IncidentType:  cell(cells, 8),
		}
		if d, ok := parseDate(cell(cells, 7)); ok {
			row.Date = &d
		}
		rows = append(rows, row)
	}

	return rows, len(raw) - 1, nil
}

// WriteIncidents writes the export workbook.
func WriteIncidents(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return err
	}
	if err := writeHeader(f, ExportSheet, exportHeader); err != nil {
		return err
	}
	widths := []float64{38, 14, 30, 50, 20, 15, 30, 8, 12, 12, 20, 40, 20, 20, 20}
	if err := setWidths(f, ExportSheet, widths); err != nil {
		return err
	}

	for i, r := range rows {
		values := []interface{}{
			r.ID, r.ReportNumber, r.Title, r.Description, r.Location, r.Category,
			r.IncidentType, r.Points.InexactFloat64(), r.Severity, r.Status, r.Reporter,
			r.ExtraComments, r.Date, r.CreatedAt, r.UpdatedAt,
		}
		axis, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ExportSheet, axis, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteTemplate writes the import template with one sample row.
func WriteTemplate(w io.Writer, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return err
	}
	if err := writeHeader(f, TemplateSheet, importHeader); err != nil {
		return err
	}
	if err := setWidths(f, TemplateSheet, []float64{30, 50, 20, 15, 15, 20, 40, 20, 30}); err != nil {
		return err
	}

	sample := []interface{}{
		"Sample Incident",
		"This is a sample incident description",
		"Main Office",
		"Medium",
		"Open",
		"John Smith",
		"Sample extra comments",
		now,
		"Tardiness",
	}
	if err := f.SetSheetRow(TemplateSheet, "A2", &sample); err != nil {
		return err
	}

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
	})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts an Excel serial date or one of the common text layouts.
func parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
