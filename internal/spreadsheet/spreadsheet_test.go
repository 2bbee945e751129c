package spreadsheet_test

import (
	"bytes"
	"testing"
	"time"

	"go-incident-tracker/internal/spreadsheet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTemplate_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteTemplate(&buf, now))

	rows, total, err := spreadsheet.ReadIncidentRows(bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sample Incident", rows[0].Title)
	assert.Equal(t, "Main Office", rows[0].Location)
	assert.Equal(t, "Tardiness", rows[0].IncidentType)
	require.NotNil(t, rows[0].Date)
	assert.Equal(t, "2026-03-14", rows[0].Date.Format("2006-01-02"))
}

func TestReadIncidentRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]interface{}{
		{"Title", "Description", "Location", "Severity", "Status", "Reporter", "Extra Comments", "Date"},
		{"Late again", "Came in 20 minutes late", "", "", "", "", "", "2025-11-03"},
		{},
		{"", "", "Warehouse"},
		{"Only title"},
	}
	for i, row := range data {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, total, err := spreadsheet.ReadIncidentRows(&buf)

	require.NoError(t, err)
	assert.Equal(t, 4, total)
	// baris kosong dilewati, validasi title/description urusan caller
	require.Len(t, rows, 3)
	assert.Equal(t, "Late again", rows[0].Title)
	assert.Empty(t, rows[0].Location)
	require.NotNil(t, rows[0].Date)
	assert.Equal(t, 2025, rows[0].Date.Year())
	assert.Equal(t, "Warehouse", rows[1].Location)
	assert.Nil(t, rows[2].Date)
	assert.Empty(t, rows[2].IncidentType)
}

func TestReadIncidentRows_NotAWorkbook(t *testing.T) {
	_, _, err := spreadsheet.ReadIncidentRows(bytes.NewReader([]byte("title,description\n")))

	assert.Error(t, err)
}

func TestWriteIncidents(t *testing.T) {
	created := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := spreadsheet.WriteIncidents(&buf, []spreadsheet.ExportRow{
		{
			ID:           "a1",
			ReportNumber: "INC-000007",
			Title:        "Tifa - Tardiness",
			Category:     "Attendance",
			IncidentType: "Tardiness",
			Points:       decimal.RequireFromString("0.5"),
			Date:         created,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{spreadsheet.ExportSheet}, f.GetSheetList())
	header, err := f.GetCellValue(spreadsheet.ExportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
	number, _ := f.GetCellValue(spreadsheet.ExportSheet, "B2")
	assert.Equal(t, "INC-000007", number)
	points, _ := f.GetCellValue(spreadsheet.ExportSheet, "H2")
	assert.Equal(t, "0.5", points)
}
