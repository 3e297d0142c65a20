package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("01/06/2025")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, 1, 6), d)

	d, err = ParseDate(" 1/6/2025 ")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, 1, 6), d)

	_, err = ParseDate("2025-01-06")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		absent  bool
		invalid bool
	}{
		{in: "8:24 AM", want: 8*60 + 24},
		{in: "08:24 am", want: 8*60 + 24},
		{in: "12:01 PM", want: 12*60 + 1},
		{in: "12:01 AM", want: 1},
		{in: "16:45", want: 16*60 + 45},
		{in: "", absent: true},
		{in: "   ", absent: true},
		{in: "-", absent: true},
		{in: "---", absent: true},
		{in: "noon", invalid: true},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		switch {
		case tc.invalid:
			if err == nil {
				t.Errorf("ParseTime(%q): expected error", tc.in)
			}
		case tc.absent:
			if err != nil || got != nil {
				t.Errorf("ParseTime(%q) = %v, %v; want absent", tc.in, got, err)
			}
		default:
			if err != nil || got == nil || *got != tc.want {
				t.Errorf("ParseTime(%q) = %v, %v; want %d", tc.in, got, err, tc.want)
			}
		}
	}
}

func TestSerialDate(t *testing.T) {
	// Day 2 of the serial numbering is 1900-01-01.
	assert.Equal(t, model.NewDate(1900, 1, 1), SerialDate(2))
	assert.Equal(t, model.NewDate(2025, 1, 6), SerialDate(45663))
	// Serials round to the nearest whole day.
	assert.Equal(t, model.NewDate(2025, 1, 6), SerialDate(45662.7))
}

func TestFractionMinutes(t *testing.T) {
	assert.Equal(t, 7*60+30, FractionMinutes(0.3125))
	assert.Equal(t, 0, FractionMinutes(0))
	assert.Equal(t, 0, FractionMinutes(1))    // a full day wraps
	assert.Equal(t, 720, FractionMinutes(1.5))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "", FormatMinutes(nil))
	assert.Equal(t, "07:05", FormatMinutes(model.MinutesPtr(7*60+5)))
	assert.Equal(t, "00:00", FormatMinutes(model.MinutesPtr(0)))
	assert.Equal(t, "16:44", FormatMinutes(model.MinutesPtr(16*60+44)))
}
