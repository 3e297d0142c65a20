package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func TestWrite(t *testing.T) {
	day := model.NewDate(2025, 1, 6)
	discrepancies := []model.Discrepancy{
		{
			Employee: "Alex Worker",
			Date:     &day,
			Field:    "clock_in",
			Expected: "07:15 | 07:30",
			Actual:   "08:00",
			Type:     model.ErrMismatch,
		},
		{
			Employee: "Javier Lopez",
			Field:    "day",
			Expected: "timesheet entry",
			Actual:   "missing",
			Type:     model.ErrMissingTimesheetRow,
		},
	}

	path := filepath.Join(t.TempDir(), "out", "validation_report.csv")
	require.NoError(t, Write(path, discrepancies))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"employee", "date", "field", "expected", "actual", "error_type"}, rows[0])
	assert.Equal(t, []string{"Alex Worker", "2025-01-06", "clock_in", "07:15 | 07:30", "08:00", "mismatch"}, rows[1])
	assert.Equal(t, []string{"Javier Lopez", "", "day", "timesheet entry", "missing", "missing_timesheet_row"}, rows[2])
}

func TestWrite_EmptyReportStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation_report.csv")
	require.NoError(t, Write(path, nil))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
