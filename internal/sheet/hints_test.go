package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/grid"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func TestParseStartHint(t *testing.T) {
	monday := model.NewDate(2025, 1, 6)
	wednesday := monday.AddDays(2)
	week := map[string]model.Date{"B": monday, "D": wednesday}

	t.Run("addj annotation without a day", func(t *testing.T) {
		day, minutes, ok := parseStartHint("Addj- 7:00am", week)
		require.True(t, ok)
		assert.True(t, day.IsZero())
		assert.Equal(t, 7*60, minutes)
	})

	t.Run("at-sign with weekday", func(t *testing.T) {
		day, minutes, ok := parseStartHint("in @ 8am wed", week)
		require.True(t, ok)
		assert.Equal(t, wednesday, day)
		assert.Equal(t, 8*60, minutes)
	})

	t.Run("numeric date selects the day", func(t *testing.T) {
		day, minutes, ok := parseStartHint("adj 9:15 1/8", week)
		require.True(t, ok)
		assert.Equal(t, wednesday, day)
		assert.Equal(t, 9*60+15, minutes)
	})

	t.Run("pm meridiem", func(t *testing.T) {
		_, minutes, ok := parseStartHint("adj in 1:30pm", week)
		require.True(t, ok)
		assert.Equal(t, 13*60+30, minutes)
	})

	t.Run("twelve am is midnight", func(t *testing.T) {
		_, minutes, ok := parseStartHint("in @ 12am", week)
		require.True(t, ok)
		assert.Equal(t, 0, minutes)
	})

	t.Run("no keyword is not a hint", func(t *testing.T) {
		_, _, ok := parseStartHint("7:00", week)
		assert.False(t, ok)
	})

	t.Run("out of range hour rejected", func(t *testing.T) {
		_, _, ok := parseStartHint("in @ 13:00", week)
		assert.False(t, ok)
	})
}

func TestStartHints_FoundNearStatusRow(t *testing.T) {
	monday := model.NewDate(2025, 1, 6)
	g := buildWeekGrid("Alex Worker", monday)
	g.Set(13, "C", grid.Text("Addj in @ 7:30am"))

	blocks := NewExtractor(config.Default().Layout).Extract(g, nil)
	require.Len(t, blocks, 1)

	hint, ok := blocks[0].StartHint(monday)
	require.True(t, ok, "a day-less hint applies to every day of the week")
	assert.Equal(t, 7*60+30, hint)
}
