// Package sheet recovers structured weekly employee blocks from a timesheet
// worksheet that has no rigid schema. Labels, row offsets, and status markers
// are located by pattern over a sparse cell grid; where those patterns live
// is configuration, not code.
package sheet

import (
	"math"
	"strings"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/grid"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/identity"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/timeparse"
)

// fractionEpsilon separates a genuine midnight cell value from an empty one.
// A zero time is indistinguishable from "no punch" in this layout, so values
// this close to zero are treated as absent.
const fractionEpsilon = 1e-9

// Extractor scans cell grids for weekly blocks using the configured layout.
type Extractor struct {
	layout config.Layout
}

// NewExtractor builds an extractor for the given layout.
func NewExtractor(layout config.Layout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract scans one worksheet grid and returns every weekly block found.
// When targetDates is non-nil, dates outside the set are dropped; a block
// left with no dates carries no information for the run and is discarded.
func (e *Extractor) Extract(g *grid.Grid, targetDates map[model.Date]bool) []model.EmployeeBlock {
	var blocks []model.EmployeeBlock
	for _, anchor := range e.anchorRows(g) {
		name, ok := e.employeeName(g, anchor)
		if !ok {
			continue
		}

		datesByCol := e.weekDates(g, anchor+1, targetDates)
		if len(datesByCol) == 0 {
			continue
		}

		labelRows := e.labelRows(g, anchor)
		timesByDate := make(map[model.Date]model.RecordedTimes, len(datesByCol))
		for col, day := range datesByCol {
			timesByDate[day] = model.RecordedTimes{
				ClockIn:  cellMinutes(g, labelRows[e.layout.ClockInLabel], col),
				LunchOut: cellMinutes(g, labelRows[e.layout.LunchOutLabel], col),
				LunchIn:  cellMinutes(g, labelRows[e.layout.LunchInLabel], col),
				ClockOut: cellMinutes(g, labelRows[e.layout.ClockOutLabel], col),
			}
		}

		statusRow := e.statusRow(g, anchor)
		blocks = append(blocks, model.EmployeeBlock{
			Name:        name,
			Key:         identity.Normalize(name),
			Sheet:       g.Name,
			DatesByCol:  datesByCol,
			TimesByDate: timesByDate,
			StatusRow:   statusRow,
			StartHints:  e.startHints(g, statusRow, datesByCol),
		})
	}
	return blocks
}

// anchorRows returns every row whose anchor-column text matches the anchor
// word, case-insensitively.
func (e *Extractor) anchorRows(g *grid.Grid) []int {
	var rows []int
	for _, row := range g.Rows() {
		if text, ok := g.Textual(row, e.layout.AnchorCol); ok {
			if strings.EqualFold(strings.TrimSpace(text), e.layout.AnchorText) {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// employeeName scans upward from the anchor for the nearest non-empty text
// cell in the name column, skipping the template's literal placeholder.
func (e *Extractor) employeeName(g *grid.Grid, anchor int) (string, bool) {
	for row := anchor - 1; row > anchor-1-e.layout.NameScanRows; row-- {
		text, ok := g.Textual(row, e.layout.NameCol)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.EqualFold(trimmed, e.layout.NamePlaceholder) {
			continue
		}
		return trimmed, true
	}
	return "", false
}

// weekDates decodes the date row: one serial date per configured weekday
// column, filtered to targetDates when a filter is given.
func (e *Extractor) weekDates(g *grid.Grid, dateRow int, targetDates map[model.Date]bool) map[string]model.Date {
	dates := make(map[string]model.Date)
	for _, col := range e.layout.WeekdayCols {
		serial, ok := g.Number(dateRow, col)
		if !ok {
			continue
		}
		day := timeparse.SerialDate(serial)
		if targetDates == nil || targetDates[day] {
			dates[col] = day
		}
	}
	return dates
}

// labelRows locates the four time-label rows within the configured window
// below the anchor by exact text match.
func (e *Extractor) labelRows(g *grid.Grid, anchor int) map[string]int {
	wanted := map[string]bool{
		e.layout.ClockInLabel:  true,
		e.layout.LunchOutLabel: true,
		e.layout.LunchInLabel:  true,
		e.layout.ClockOutLabel: true,
	}
	rows := make(map[string]int)
	for row := anchor + e.layout.LabelRowStart; row <= anchor+e.layout.LabelRowEnd; row++ {
		text, ok := g.Textual(row, e.layout.NameCol)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if wanted[trimmed] {
			if _, seen := rows[trimmed]; !seen {
				rows[trimmed] = row
			}
		}
	}
	return rows
}

// statusRow finds the first row in the wider window below the block whose
// status-column text equals the status marker. Zero means none was found.
func (e *Extractor) statusRow(g *grid.Grid, anchor int) int {
	for row := anchor + e.layout.LabelRowStart; row <= anchor+e.layout.StatusRowEnd; row++ {
		text, ok := g.Textual(row, e.layout.StatusScanCol)
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(text), e.layout.StatusText) {
			return row
		}
	}
	return 0
}

// cellMinutes reads a fraction-of-day cell at (row, col) as minutes since
// midnight. Row zero means the label row was never found.
func cellMinutes(g *grid.Grid, row int, col string) *int {
	if row == 0 {
		return nil
	}
	value, ok := g.Number(row, col)
	if !ok {
		return nil
	}
	if math.Abs(value) < fractionEpsilon {
		return nil
	}
	return model.MinutesPtr(timeparse.FractionMinutes(value))
}
