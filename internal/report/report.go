// Package report writes the discrepancy report consumed by payroll staff.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

var header = []string{"employee", "date", "field", "expected", "actual", "error_type"}

// Write renders the discrepancies as CSV at path, creating parent
// directories as needed.
func Write(path string, discrepancies []model.Discrepancy) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, d := range discrepancies {
		date := ""
		if d.Date != nil {
			date = d.Date.String()
		}
		row := []string{d.Employee, date, d.Field, d.Expected, d.Actual, string(d.Type)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
