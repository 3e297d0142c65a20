// Package timeparse converts between the time representations of the two
// input formats: the punch export's textual dates and clock times, and the
// spreadsheet's serial dates and fraction-of-day cell values.
package timeparse

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 24 * 60

// excelEpoch is the base of the spreadsheet serial date numbering (the common
// 1900 system with its leap-year quirk folded in, so day 1 is 1899-12-31).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a punch-export date in m/d/yyyy form.
func ParseDate(value string) (model.Date, error) {
	t, err := time.Parse("1/2/2006", strings.TrimSpace(value))
	if err != nil {
		return model.Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return model.DateOf(t), nil
}

// ParseTime parses a punch-export clock time into minutes since midnight.
// Accepts 12-hour ("8:24 AM") and 24-hour ("16:45") forms. An empty value or
// a run of dashes (the export's placeholder for no punch) returns (nil, nil).
// Any other unrecognized value is an error; the export promises one of the
// two forms, so a third is corrupt input rather than an absent punch.
func ParseTime(value string) (*int, error) {
	text := strings.TrimSpace(value)
	if text == "" || strings.Trim(text, "-") == "" {
		return nil, nil
	}
	for _, layout := range []string{"3:04 PM", "15:04"} {
		t, err := time.Parse(layout, strings.ToUpper(text))
		if err == nil {
			return model.MinutesPtr(t.Hour()*60 + t.Minute()), nil
		}
	}
	return nil, fmt.Errorf("unrecognized time format: %q", value)
}

// SerialDate decodes a spreadsheet serial day count into a calendar date.
func SerialDate(serial float64) model.Date {
	days := int(math.Round(serial))
	return model.DateOf(excelEpoch.AddDate(0, 0, days))
}

// FractionMinutes converts a fraction-of-day cell value into minutes since
// midnight, wrapping values of a day or more.
func FractionMinutes(value float64) int {
	minutes := int(math.Round(value * MinutesPerDay))
	return ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// FormatMinutes renders minutes since midnight as HH:MM. Nil renders empty.
func FormatMinutes(value *int) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", *value/60, *value%60)
}
