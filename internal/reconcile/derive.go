package reconcile

import (
	"errors"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

// errInvalidSequence marks a day whose punch segments cannot form a shift:
// either nothing at all or more in/out pairs than the one-lunch policy knows
// how to interpret.
var errInvalidSequence = errors.New("invalid punch sequence")

// deriveTimes converts one day's punch segments into the raw clock times and
// the policy-expected clock times.
//
// One segment is a straight shift: inbound clock-in rounds to the nearest
// boundary (ties later), the outbound clock-out is taken as punched. Two
// segments are morning and afternoon around a lunch: the lunch-out boundary
// rounds like an inbound time and the return is clamped to at least the
// minimum lunch after it. Outbound end-of-period times are never rounded.
func (e *Engine) deriveTimes(daily *model.DailyPunches) (raw model.RecordedTimes, expected model.ExpectedTimes, err error) {
	switch len(daily.Segments) {
	case 1:
		seg := daily.Segments[0]
		raw = model.RecordedTimes{
			ClockIn:  model.MinutesPtr(seg.In),
			ClockOut: model.MinutesPtr(seg.Out),
		}
		expected = model.ExpectedTimes{
			ClockIn:      model.MinutesPtr(e.roundIn(seg.In)),
			ClockOut:     model.MinutesPtr(seg.Out),
			ShiftMinutes: model.MinutesPtr(seg.Duration()),
		}
		return raw, expected, nil

	case 2:
		first, second := daily.Segments[0], daily.Segments[1]
		raw = model.RecordedTimes{
			ClockIn:  model.MinutesPtr(first.In),
			LunchOut: model.MinutesPtr(first.Out),
			LunchIn:  model.MinutesPtr(second.In),
			ClockOut: model.MinutesPtr(second.Out),
		}
		lunchOut := e.roundIn(first.Out)
		lunchIn := second.In
		if min := lunchOut + e.rules.LunchMinutes; lunchIn < min {
			lunchIn = min
		}
		expected = model.ExpectedTimes{
			ClockIn:      model.MinutesPtr(e.roundIn(first.In)),
			LunchOut:     model.MinutesPtr(lunchOut),
			LunchIn:      model.MinutesPtr(lunchIn),
			ClockOut:     model.MinutesPtr(second.Out),
			ShiftMinutes: model.MinutesPtr(first.Duration() + second.Duration()),
		}
		return raw, expected, nil

	default:
		return model.RecordedTimes{}, model.ExpectedTimes{}, errInvalidSequence
	}
}

// roundIn rounds an inbound boundary time to the nearest rounding step, with
// exact midpoints resolving to the later boundary. Times already past the
// nearest boundary are left as punched.
func (e *Engine) roundIn(minutes int) int {
	boundary := e.nearestBoundary(minutes)
	if minutes < boundary {
		return boundary
	}
	return minutes
}

// nearestBoundary returns the scheduled-time boundary closest to minutes
// (ties round up).
func (e *Engine) nearestBoundary(minutes int) int {
	step := e.rules.RoundingStepMinutes
	lower := minutes - minutes%step
	upper := lower + step
	if minutes-lower < upper-minutes {
		return lower
	}
	return upper
}
