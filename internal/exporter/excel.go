package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WorkbookFilename is the spreadsheet companion to the CSV tables.
const WorkbookFilename = "results.xlsx"

// WriteWorkbook writes every table into one workbook, one sheet per table,
// with the same cells as the CSV files. The CSVs stay canonical; callers
// treat a workbook failure as a logged warning, not an abort.
func (w *Writer) WriteWorkbook(tables []Table) error {
	if len(tables) == 0 {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return err
		}
	}

	fullPath := filepath.Join(w.outDir, WorkbookFilename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	slog.Info("writing workbook",
		slog.String("file", WorkbookFilename),
		slog.Int("sheets", len(tables)))
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	writeRow := func(rowIdx int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, t.Headers); err != nil {
		return fmt.Errorf("sheet %q headers: %w", sheet, err)
	}
	for i, cells := range t.Rows {
		if err := writeRow(i+2, cells); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, i, err)
		}
	}
	return nil
}

// sheetName truncates to the spreadsheet 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
