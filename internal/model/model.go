// Package model holds the data types shared by the reconciliation pipeline:
// raw punch segments, the four recorded/expected clock slots, extracted
// timesheet blocks, and the discrepancies the engine reports.
package model

import "sort"

// PunchSegment is one raw clock-in/clock-out pair, in minutes since midnight.
// Out is not required to exceed In; validity is judged later by segment count.
type PunchSegment struct {
	In  int
	Out int
}

// Duration returns Out - In.
func (s PunchSegment) Duration() int { return s.Out - s.In }

// DailyPunches collects all punch segments for one employee on one date.
// Segments are kept sorted ascending by In.
type DailyPunches struct {
	Name     string // display name as it appears in the punch export
	Key      string // normalized identity key
	Date     Date
	Segments []PunchSegment
}

// PunchKey identifies one employee-day in the punch data.
type PunchKey struct {
	Key  string
	Date Date
}

// SortSegments restores the ascending-by-In ordering after appends.
func (d *DailyPunches) SortSegments() {
	sort.Slice(d.Segments, func(i, j int) bool {
		return d.Segments[i].In < d.Segments[j].In
	})
}

// RecordedTimes are the four time slots as literally written in the
// spreadsheet for one employee-day. A nil slot means the cell is empty.
type RecordedTimes struct {
	ClockIn  *int
	LunchOut *int
	LunchIn  *int
	ClockOut *int
}

// HasAny reports whether any of the four slots is filled in.
func (r RecordedTimes) HasAny() bool {
	return r.ClockIn != nil || r.LunchOut != nil || r.LunchIn != nil || r.ClockOut != nil
}

// ExpectedTimes are the four slots as policy says they should read, derived
// from the raw punches, plus the total worked minutes.
type ExpectedTimes struct {
	ClockIn      *int
	LunchOut     *int
	LunchIn      *int
	ClockOut     *int
	ShiftMinutes *int
}

// EmployeeBlock is one employee's one-week region of the timesheet.
type EmployeeBlock struct {
	Name  string
	Key   string // normalized from Name; may differ from the punch-side key
	Sheet string // worksheet the block was extracted from

	// DatesByCol maps a weekday column letter to the calendar date decoded
	// from the block's date row.
	DatesByCol map[string]Date

	// TimesByDate maps each surviving date to the recorded time slots.
	TimesByDate map[Date]RecordedTimes

	// StatusRow is the row index where the run's verdict is written back.
	// Zero means no status row was found; the block is still validated.
	StatusRow int

	// StartHints maps a date to an annotated adjusted start time found near
	// the status row. The zero Date entry, if present, applies to every day
	// of the block's week.
	StartHints map[Date]int
}

// Dates returns the block's surviving dates in ascending order.
func (b *EmployeeBlock) Dates() []Date {
	out := make([]Date, 0, len(b.TimesByDate))
	for d := range b.TimesByDate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// StartHint returns the adjusted-start annotation applying to day, preferring
// a day-specific hint over a week-wide one.
func (b *EmployeeBlock) StartHint(day Date) (int, bool) {
	if m, ok := b.StartHints[day]; ok {
		return m, true
	}
	m, ok := b.StartHints[Date{}]
	return m, ok
}

// ErrorType tags one category of reportable finding.
type ErrorType string

const (
	ErrMissingPunchData     ErrorType = "missing_punch_data"
	ErrInvalidPunchSequence ErrorType = "invalid_punch_sequence"
	ErrMissingOrInvalidLunch ErrorType = "missing_or_invalid_lunch"
	ErrUnexpectedEntry      ErrorType = "unexpected_entry"
	ErrMissingEntry         ErrorType = "missing_entry"
	ErrMismatch             ErrorType = "mismatch"
	ErrMissingTimesheetRow  ErrorType = "missing_timesheet_row"
)

// Discrepancy is one reportable mismatch between the punch data and the
// timesheet. It is output-only and never mutated after creation.
type Discrepancy struct {
	Employee string
	Date     *Date // nil for day-less findings
	Field    string
	Expected string // human-readable; empty when not applicable
	Actual   string
	Type     ErrorType
}

// Status is the per-block verdict written back into the spreadsheet.
type Status string

const (
	StatusOK             Status = "ok"
	StatusNeedsAttention Status = "needs attention"
)

// MinutesPtr returns a pointer to v. Convenience for building optional slots.
func MinutesPtr(v int) *int { return &v }
