// Package workbook adapts the xlsx container to the engine's cell-grid
// abstraction and handles the status write-back. excelize carries the
// zip/XML/shared-string mechanics; this package only decides which sheets to
// read and how raw cell values become typed grid values.
package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/grid"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

// LoadGrids opens the workbook at path and returns one cell grid per
// selected worksheet, in workbook order. With a non-empty sheetHint, only
// sheets whose name matches the hint exactly, or whose digit characters
// contain the hint, are selected; a hint matching nothing is fatal, since
// scanning the wrong sheet would silently corrupt the run's results.
func LoadGrids(path, sheetHint string) ([]*grid.Grid, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := SelectSheets(file.GetSheetList(), sheetHint)
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no worksheet matches hint %q", sheetHint)
	}

	grids := make([]*grid.Grid, 0, len(sheets))
	for _, name := range sheets {
		g, err := loadSheet(file, name)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// SelectSheets filters worksheet names by the hint. An empty hint selects
// everything.
func SelectSheets(names []string, hint string) []string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return names
	}
	var selected []string
	for _, name := range names {
		if name == hint || strings.Contains(digits(name), hint) {
			selected = append(selected, name)
		}
	}
	return selected
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// loadSheet reads one worksheet into a sparse grid of typed values. Raw cell
// values that parse as floats become numbers (serial dates and time
// fractions); anything else stays text.
func loadSheet(file *excelize.File, name string) (*grid.Grid, error) {
	rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	g := grid.New(name)
	for rowIdx, row := range rows {
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			col, err := excelize.ColumnNumberToName(colIdx + 1)
			if err != nil {
				return nil, fmt.Errorf("sheet %s: %w", name, err)
			}
			if num, err := strconv.ParseFloat(raw, 64); err == nil {
				g.Set(rowIdx+1, col, grid.Number(num))
			} else {
				g.Set(rowIdx+1, col, grid.Text(raw))
			}
		}
	}
	return g, nil
}

// WriteStatuses copies the workbook at inPath to outPath with the status
// column of sheetName updated from statusByRow. Every other cell, sheet, and
// style rides along unchanged.
func WriteStatuses(inPath, outPath, sheetName, statusCol string, statusByRow map[int]model.Status) error {
	file, err := excelize.OpenFile(inPath)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	if idx, err := file.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return fmt.Errorf("workbook has no sheet %q", sheetName)
	}

	for row, status := range statusByRow {
		cell := fmt.Sprintf("%s%d", statusCol, row)
		if err := file.SetCellStr(sheetName, cell, string(status)); err != nil {
			return fmt.Errorf("set status %s!%s: %w", sheetName, cell, err)
		}
	}

	if err := file.SaveAs(outPath); err != nil {
		return fmt.Errorf("save validated workbook: %w", err)
	}
	return nil
}

// ReadStatus reads back the status cell at (row, statusCol) on sheetName.
// Used by the round-trip checks.
func ReadStatus(path, sheetName, statusCol string, row int) (string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	value, err := file.GetCellValue(sheetName, fmt.Sprintf("%s%d", statusCol, row))
	if err != nil {
		return "", fmt.Errorf("read status cell: %w", err)
	}
	return value, nil
}
