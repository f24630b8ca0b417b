package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const totalsSheet = "Coletas por cliente"

var totalsHeader = []string{"Cliente", "Zona", "Cor", "Previstas", "Realizadas", "Canceladas"}

var totalsColumnWidths = []float64{35, 20, 12, 12, 12, 12}

// ExportTotals runs the totals report and renders it as a workbook.
func (s *ReportService) ExportTotals(ctx context.Context, q PeriodQuery) ([]byte, error) {
	period, err := ParsePeriod(q.StartDate, q.EndDate, MaxTotalsReportDays)
	if err != nil {
		return nil, err
	}
	rows, err := s.TotalsReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return ExportTotalsXLSX(period, rows)
}

// ExportTotalsXLSX renders the totals report as a spreadsheet, with the
// period in the title row.
func ExportTotalsXLSX(period Period, rows []TotalsRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(totalsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	title := fmt.Sprintf("Período: %s a %s", period.Start.Format("02/01/2006"), period.End.Format("02/01/2006"))
	if err := f.SetCellValue(totalsSheet, "A1", title); err != nil {
		return nil, err
	}

	for col, header := range totalsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(totalsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(totalsSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("header style %s: %w", cell, err)
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(totalsSheet, colName, colName, totalsColumnWidths[col]); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.ClientName, row.Zone, row.Color, row.Expected, row.Realized, row.Cancelled}
		if err := f.SetSheetRow(totalsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+3, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
