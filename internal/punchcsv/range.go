package punchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/timeparse"
)

// DateRange is the reporting period the punch export covers.
type DateRange struct {
	Start model.Date
	End   model.Date
}

var (
	rangeSlashRe = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*[-_]\s*(\d{1,2}/\d{1,2}/\d{4})`)
	rangeDashRe  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*[-_]\s*(\d{4}-\d{2}-\d{2})`)
)

// preambleRows bounds the search for the range text near the top of the file.
const preambleRows = 5

// ReadReportRange recovers the export's reporting period from free text in
// its first rows, falling back to the filename. Nil when neither carries a
// recognizable range; the range only steers worksheet selection, so absence
// is not an error.
func ReadReportRange(path string) (*DateRange, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open punch export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	for i := 0; i < preambleRows; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read punch export: %w", err)
		}
		if r := parseRange(strings.Join(row, " ")); r != nil {
			return r, nil
		}
	}
	return parseRange(filepath.Base(path)), nil
}

func parseRange(text string) *DateRange {
	if match := rangeSlashRe.FindStringSubmatch(text); match != nil {
		start, err1 := timeparse.ParseDate(match[1])
		end, err2 := timeparse.ParseDate(match[2])
		if err1 == nil && err2 == nil {
			return &DateRange{Start: start, End: end}
		}
	}
	if match := rangeDashRe.FindStringSubmatch(text); match != nil {
		start, err1 := time.Parse("2006-01-02", match[1])
		end, err2 := time.Parse("2006-01-02", match[2])
		if err1 == nil && err2 == nil {
			return &DateRange{Start: model.DateOf(start), End: model.DateOf(end)}
		}
	}
	return nil
}

// SheetHint derives the worksheet-selection hint from a report range: the
// month and day of the first Monday at or after the range start, formatted
// MMDD, matching how the weekly tabs are named. The range start itself is
// used when no Monday falls inside the range.
func SheetHint(r *DateRange) string {
	if r == nil {
		return ""
	}
	monday := r.Start
	if offset := (int(time.Monday) - int(r.Start.Weekday()) + 7) % 7; offset > 0 {
		monday = r.Start.AddDays(offset)
	}
	if r.End.Before(monday) {
		monday = r.Start
	}
	return fmt.Sprintf("%02d%02d", int(monday.Month), monday.Day)
}
