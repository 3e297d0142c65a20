package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func testEngine() *Engine {
	return NewEngine(config.Default().Rules)
}

func TestRoundIn(t *testing.T) {
	e := testEngine()
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"on the boundary", 7 * 60, 7 * 60},
		{"closer to lower stays as punched", 7*60 + 14, 7*60 + 14},
		{"exact midpoint rounds to later boundary", 7*60 + 15, 7*60 + 30},
		{"closer to upper rounds up", 7*60 + 16, 7*60 + 30},
		{"one minute before boundary rounds up", 7*60 + 29, 7*60 + 30},
		{"one minute after boundary stays", 7*60 + 31, 7*60 + 31},
	}
	for _, tc := range cases {
		if got := e.roundIn(tc.in); got != tc.want {
			t.Errorf("%s: roundIn(%d) = %d, want %d", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNearestBoundary_MidpointsResolveUp(t *testing.T) {
	e := testEngine()
	for hour := 0; hour < 24; hour++ {
		for _, offset := range []int{15, 45} {
			m := hour*60 + offset
			want := m + 15
			if got := e.nearestBoundary(m); got != want {
				t.Errorf("nearestBoundary(%d) = %d, want later boundary %d", m, got, want)
			}
		}
	}
}

func TestDeriveTimes_SingleSegment(t *testing.T) {
	e := testEngine()
	daily := &model.DailyPunches{
		Segments: []model.PunchSegment{{In: 8*60 + 24, Out: 13 * 60}},
	}
	raw, expected, err := e.deriveTimes(daily)
	require.NoError(t, err)

	assert.Equal(t, 8*60+24, *raw.ClockIn)
	assert.Equal(t, 13*60, *raw.ClockOut)
	assert.Nil(t, raw.LunchOut)
	assert.Nil(t, raw.LunchIn)

	// 8:24 is past the 8:00 boundary and closer to 8:30, so it rounds up;
	// the outbound clock-out is never rounded.
	assert.Equal(t, 8*60+30, *expected.ClockIn)
	assert.Equal(t, 13*60, *expected.ClockOut)
	assert.Equal(t, 4*60+36, *expected.ShiftMinutes)
}

func TestDeriveTimes_TwoSegments(t *testing.T) {
	e := testEngine()
	daily := &model.DailyPunches{
		Segments: []model.PunchSegment{
			{In: 9 * 60, Out: 13*60 + 40},
			{In: 14*60 + 1, Out: 18 * 60},
		},
	}
	_, expected, err := e.deriveTimes(daily)
	require.NoError(t, err)

	assert.Equal(t, 9*60, *expected.ClockIn)
	assert.Equal(t, 13*60+40, *expected.LunchOut)
	// The return is clamped to lunch-out + 30 even though the employee
	// punched back in at 14:01.
	assert.Equal(t, 14*60+10, *expected.LunchIn)
	assert.Equal(t, 18*60, *expected.ClockOut)
	assert.Equal(t, (4*60+40)+(3*60+59), *expected.ShiftMinutes)
}

func TestDeriveTimes_InvalidSegmentCounts(t *testing.T) {
	e := testEngine()
	for _, count := range []int{0, 3, 4} {
		segments := make([]model.PunchSegment, count)
		for i := range segments {
			segments[i] = model.PunchSegment{In: i * 60, Out: i*60 + 30}
		}
		_, _, err := e.deriveTimes(&model.DailyPunches{Segments: segments})
		assert.ErrorIs(t, err, errInvalidSequence, "segment count %d", count)
	}
}
