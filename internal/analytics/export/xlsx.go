package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/quotebook/quotebook/internal/analytics"
)

// Sheet names of the XLSX workbook.
const (
	SheetSummary     = "Summary"
	SheetTopProducts = "Top Products"
	SheetStatus      = "Status"
)

// WriteReportXLSX writes report as a workbook with one sheet per block.
func WriteReportXLSX(w io.Writer, report analytics.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]string
	}{
		{SheetSummary, summaryRows(report)},
		{SheetTopProducts, topProductRows(report)},
		{SheetStatus, statusRows(report)},
	}
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return err
		}
		if err := writeRows(f, sheet.name, sheet.rows, headerStyle); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.name, err)
		}
	}
	f.SetActiveSheet(0)

	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]string, headerStyle int) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}
