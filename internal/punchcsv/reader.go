// Package punchcsv reads the flat punch-clock export: a CSV with a preamble
// of report metadata, a header row naming the punch columns, and one row per
// raw in/out pair. Rows merge into one DailyPunches per employee-day.
package punchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/identity"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/timeparse"
)

// Export column captions. The export is machine-generated, so these are
// matched exactly.
const (
	colLastName  = "EMP L NAME"
	colFirstName = "EMP F NAME"
	colDate      = "DATE"
	colIn        = "IN"
	colOut       = "OUT"
)

// ReadPunches parses the export at path into one DailyPunches per
// (identity, date). A missing header row or required column is fatal; a row
// missing its date or either time is dropped.
func ReadPunches(path string) (map[model.PunchKey]*model.DailyPunches, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open punch export: %w", err)
	}
	defer file.Close()
	return parsePunches(file)
}

func parsePunches(r io.Reader) (map[model.PunchKey]*model.DailyPunches, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := findHeader(reader)
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	grouped := make(map[model.PunchKey]*model.DailyPunches)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read punch row: %w", err)
		}
		if len(row) <= cols.out {
			continue
		}

		dateRaw := strings.TrimSpace(row[cols.date])
		inRaw := strings.TrimSpace(row[cols.in])
		outRaw := strings.TrimSpace(row[cols.out])
		if dateRaw == "" || inRaw == "" || outRaw == "" {
			continue
		}

		name := displayName(row[cols.first], row[cols.last])
		if name == "" {
			continue
		}

		day, err := timeparse.ParseDate(dateRaw)
		if err != nil {
			// A malformed date on one row is tolerated; the row is dropped.
			continue
		}
		inMinutes, err := timeparse.ParseTime(inRaw)
		if err != nil {
			return nil, err
		}
		outMinutes, err := timeparse.ParseTime(outRaw)
		if err != nil {
			return nil, err
		}
		if inMinutes == nil || outMinutes == nil {
			continue
		}

		key := identity.Normalize(name)
		punchKey := model.PunchKey{Key: key, Date: day}
		daily := grouped[punchKey]
		if daily == nil {
			daily = &model.DailyPunches{Name: name, Key: key, Date: day}
			grouped[punchKey] = daily
		}
		daily.Segments = append(daily.Segments, model.PunchSegment{In: *inMinutes, Out: *outMinutes})
	}

	for _, daily := range grouped {
		daily.SortSegments()
	}
	return grouped, nil
}

// findHeader scans forward for the row containing the last-name caption.
func findHeader(reader *csv.Reader) ([]string, error) {
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("punch export header row not found")
		}
		if err != nil {
			return nil, fmt.Errorf("read punch export: %w", err)
		}
		for _, cell := range row {
			if strings.TrimSpace(cell) == colLastName {
				return row, nil
			}
		}
	}
}

type columns struct {
	last, first, date, in, out int
}

func resolveColumns(header []string) (columns, error) {
	index := func(name string) (int, error) {
		for i, cell := range header {
			if strings.TrimSpace(cell) == name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("punch export missing column: %s", name)
	}

	var cols columns
	var err error
	if cols.last, err = index(colLastName); err != nil {
		return cols, err
	}
	if cols.first, err = index(colFirstName); err != nil {
		return cols, err
	}
	if cols.date, err = index(colDate); err != nil {
		return cols, err
	}
	if cols.in, err = index(colIn); err != nil {
		return cols, err
	}
	if cols.out, err = index(colOut); err != nil {
		return cols, err
	}
	return cols, nil
}

func displayName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// TargetDates returns the set of calendar dates the punch data covers. The
// extractor uses it to drop weekly blocks outside the run's punch window.
func TargetDates(punches map[model.PunchKey]*model.DailyPunches) map[model.Date]bool {
	dates := make(map[model.Date]bool, len(punches))
	for key := range punches {
		dates[key.Date] = true
	}
	return dates
}
