// Package reconcile compares the clock times an employee's punches say a
// timesheet should show against the times the sheet actually shows. Findings
// come out as tagged discrepancies plus a per-block pass/fail status; the
// engine itself never fails on business input, only reports.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/identity"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/timeparse"
)

// Engine validates extracted timesheet blocks against punch data under one
// policy configuration. An Engine holds no per-run state; Validate may be
// called repeatedly and two runs over identical inputs yield identical
// output.
type Engine struct {
	rules config.Rules
}

// NewEngine builds an engine enforcing the given rules.
func NewEngine(rules config.Rules) *Engine {
	return &Engine{rules: rules}
}

// Result carries everything one validation pass produced.
type Result struct {
	Discrepancies []model.Discrepancy
	// StatusByRow maps each block's status row to its verdict.
	StatusByRow map[int]model.Status
}

// OKCount returns the number of blocks that passed.
func (r *Result) OKCount() int {
	n := 0
	for _, s := range r.StatusByRow {
		if s == model.StatusOK {
			n++
		}
	}
	return n
}

// NeedsAttentionCount returns the number of blocks that did not pass.
func (r *Result) NeedsAttentionCount() int {
	return len(r.StatusByRow) - r.OKCount()
}

// Validate runs the full comparison: per-day field checks for every block,
// then a sweep for punch days no block consumed.
func (e *Engine) Validate(blocks []model.EmployeeBlock, punches map[model.PunchKey]*model.DailyPunches) *Result {
	result := &Result{StatusByRow: make(map[int]model.Status)}
	matched := make(map[model.PunchKey]bool)
	blocksByKey := make(map[string][]*model.EmployeeBlock)

	resolver := identity.NewResolver(punches)

	for i := range blocks {
		block := &blocks[i]
		blocksByKey[block.Key] = append(blocksByKey[block.Key], block)

		resolvedKey, ok := resolver.Resolve(block.Name, block.Key)
		if !ok {
			// Ambiguous or unmatchable names degrade to the block's own key
			// rather than aborting; a wrong guess surfaces later as a
			// missing-punch or missing-row finding.
			resolvedKey = block.Key
		}

		hasIssue := false
		for _, day := range block.Dates() {
			recorded := block.TimesByDate[day]
			punchKey := model.PunchKey{Key: resolvedKey, Date: day}
			daily, exists := punches[punchKey]
			if !exists {
				if recorded.HasAny() {
					result.add(model.Discrepancy{
						Employee: block.Name,
						Date:     datePtr(day),
						Field:    "day",
						Expected: "punch data",
						Actual:   "missing",
						Type:     model.ErrMissingPunchData,
					})
					hasIssue = true
				}
				continue
			}
			matched[punchKey] = true

			if e.validateDay(result, block, day, daily, recorded) {
				hasIssue = true
			}
		}

		if block.StatusRow != 0 {
			status := model.StatusOK
			if hasIssue {
				status = model.StatusNeedsAttention
			}
			result.StatusByRow[block.StatusRow] = status
		}
	}

	e.sweepUnmatched(result, punches, matched, blocksByKey)
	return result
}

// validateDay runs steps 2-4 of the per-day pipeline for one employee-day.
// It reports whether any finding was recorded.
func (e *Engine) validateDay(result *Result, block *model.EmployeeBlock, day model.Date, daily *model.DailyPunches, recorded model.RecordedTimes) bool {
	raw, expected, err := e.deriveTimes(daily)
	if err != nil {
		result.add(model.Discrepancy{
			Employee: block.Name,
			Date:     datePtr(day),
			Field:    "punch_sequence",
			Expected: "1 or 2 punch pairs",
			Actual:   fmt.Sprintf("%d", len(daily.Segments)),
			Type:     model.ErrInvalidPunchSequence,
		})
		return true
	}

	hasIssue := false
	lunchRequired := expected.ShiftMinutes != nil && *expected.ShiftMinutes > e.rules.LunchRequiredOverMinutes
	lunchValidated := false
	if raw.LunchOut == nil && raw.LunchIn == nil && lunchRequired {
		lunchValidated = e.validManualLunch(expected, recorded)
		if !lunchValidated {
			result.add(model.Discrepancy{
				Employee: block.Name,
				Date:     datePtr(day),
				Field:    "lunch_break",
				Expected: fmt.Sprintf("%d minutes", e.rules.LunchMinutes),
				Actual:   formatLunch(recorded),
				Type:     model.ErrMissingOrInvalidLunch,
			})
			hasIssue = true
		}
	}

	if e.compareDay(result, block, day, raw, expected, recorded, lunchValidated) {
		hasIssue = true
	}
	return hasIssue
}

// compareDay compares the four fields, skipping the lunch pair when the
// manual-lunch branch already settled it.
func (e *Engine) compareDay(result *Result, block *model.EmployeeBlock, day model.Date, raw model.RecordedTimes, expected model.ExpectedTimes, recorded model.RecordedTimes, skipLunch bool) bool {
	clockIn := NewCandidates(raw.ClockIn, expected.ClockIn)
	if hint, ok := block.StartHint(day); ok {
		clockIn.Add(model.MinutesPtr(hint))
	}

	hasIssue := e.compareField(result, block.Name, day, "clock_in", clockIn, recorded.ClockIn)
	if !skipLunch {
		if e.compareField(result, block.Name, day, "clock_out_lunch",
			NewCandidates(raw.LunchOut, expected.LunchOut), recorded.LunchOut) {
			hasIssue = true
		}
		if e.compareField(result, block.Name, day, "clock_in_work",
			e.allowedLunchIn(raw, expected), recorded.LunchIn) {
			hasIssue = true
		}
	}
	if e.compareField(result, block.Name, day, "clock_out",
		NewCandidates(raw.ClockOut, expected.ClockOut), recorded.ClockOut) {
		hasIssue = true
	}
	return hasIssue
}

// allowedLunchIn builds the acceptable lunch-return values: the recorded
// return when it already satisfies the minimum-lunch rule, the derived
// expectation, and the clamped return, in that preference order.
func (e *Engine) allowedLunchIn(raw model.RecordedTimes, expected model.ExpectedTimes) Candidates {
	if raw.LunchOut == nil || raw.LunchIn == nil {
		return NewCandidates(raw.LunchIn, expected.LunchIn, e.enforcedLunchIn(raw))
	}
	var c Candidates
	minReturn := *raw.LunchOut + e.rules.LunchMinutes
	if *raw.LunchIn >= minReturn {
		c.Add(raw.LunchIn)
	}
	c.Add(expected.LunchIn)
	clamped := *raw.LunchIn
	if clamped < minReturn {
		clamped = minReturn
	}
	c.Add(model.MinutesPtr(clamped))
	return c
}

// enforcedLunchIn returns the punched lunch return clamped to the minimum
// lunch length, or nil when either lunch punch is missing.
func (e *Engine) enforcedLunchIn(raw model.RecordedTimes) *int {
	if raw.LunchOut == nil || raw.LunchIn == nil {
		return nil
	}
	v := *raw.LunchIn
	if min := *raw.LunchOut + e.rules.LunchMinutes; v < min {
		v = min
	}
	return model.MinutesPtr(v)
}

// compareField applies the allowed-values comparison for one field and
// reports whether it produced a finding.
func (e *Engine) compareField(result *Result, employee string, day model.Date, field string, allowed Candidates, actual *int) bool {
	switch {
	case allowed.Empty() && actual == nil:
		return false
	case allowed.Empty():
		result.add(model.Discrepancy{
			Employee: employee,
			Date:     datePtr(day),
			Field:    field,
			Actual:   timeparse.FormatMinutes(actual),
			Type:     model.ErrUnexpectedEntry,
		})
		return true
	case actual == nil:
		result.add(model.Discrepancy{
			Employee: employee,
			Date:     datePtr(day),
			Field:    field,
			Expected: allowed.String(),
			Type:     model.ErrMissingEntry,
		})
		return true
	case allowed.Matches(*actual, e.rules.ToleranceMinutes):
		return false
	default:
		result.add(model.Discrepancy{
			Employee: employee,
			Date:     datePtr(day),
			Field:    field,
			Expected: allowed.String(),
			Actual:   timeparse.FormatMinutes(actual),
			Type:     model.ErrMismatch,
		})
		return true
	}
}

// validManualLunch checks a hand-entered lunch pair on a day with no lunch
// punches: both values present, exactly the minimum lunch apart, and inside
// the expected shift boundaries.
func (e *Engine) validManualLunch(expected model.ExpectedTimes, recorded model.RecordedTimes) bool {
	if recorded.LunchOut == nil || recorded.LunchIn == nil {
		return false
	}
	if *recorded.LunchIn-*recorded.LunchOut != e.rules.LunchMinutes {
		return false
	}
	if expected.ClockIn != nil && *recorded.LunchOut < *expected.ClockIn {
		return false
	}
	if expected.ClockOut != nil && *recorded.LunchIn > *expected.ClockOut {
		return false
	}
	return true
}

// sweepUnmatched emits a finding for every punch day no block consumed and
// forces needs-attention on blocks sharing the punch's original key.
func (e *Engine) sweepUnmatched(result *Result, punches map[model.PunchKey]*model.DailyPunches, matched map[model.PunchKey]bool, blocksByKey map[string][]*model.EmployeeBlock) {
	keys := make([]model.PunchKey, 0, len(punches))
	for key := range punches {
		if !matched[key] {
			keys = append(keys, key)
		}
	}
	// Deterministic report order regardless of map iteration.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Key != keys[j].Key {
			return keys[i].Key < keys[j].Key
		}
		return keys[i].Date.Before(keys[j].Date)
	})

	for _, key := range keys {
		daily := punches[key]
		result.add(model.Discrepancy{
			Employee: daily.Name,
			Date:     datePtr(daily.Date),
			Field:    "day",
			Expected: "timesheet entry",
			Actual:   "missing",
			Type:     model.ErrMissingTimesheetRow,
		})
		for _, block := range blocksByKey[daily.Key] {
			if block.StatusRow != 0 {
				result.StatusByRow[block.StatusRow] = model.StatusNeedsAttention
			}
		}
	}
}

func (r *Result) add(d model.Discrepancy) {
	r.Discrepancies = append(r.Discrepancies, d)
}

func datePtr(d model.Date) *model.Date { return &d }

func formatLunch(recorded model.RecordedTimes) string {
	if recorded.LunchOut == nil || recorded.LunchIn == nil {
		return "missing"
	}
	return timeparse.FormatMinutes(recorded.LunchOut) + "-" + timeparse.FormatMinutes(recorded.LunchIn)
}
