package punchcsv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleExport = `Punch Report,01/06/2025 - 01/12/2025
,,
EMP L NAME,EMP F NAME,DATE,IN,OUT
LOPEZ,JAVIER,01/06/2025,8:24 AM,1:00 PM
LOPEZ,JAVIER,01/06/2025,1:45 PM,5:00 PM
WORKER,ALEX,01/06/2025,7:15 AM,4:44 PM
WORKER,ALEX,,7:15 AM,4:44 PM
SHORT,DANA,01/07/2025,---,---
`

func TestReadPunches_GroupsAndSorts(t *testing.T) {
	path := writeCSV(t, "punches.csv", sampleExport)
	punches, err := ReadPunches(path)
	require.NoError(t, err)

	day := model.NewDate(2025, 1, 6)
	javier := punches[model.PunchKey{Key: "javier lopez", Date: day}]
	require.NotNil(t, javier)
	assert.Equal(t, "JAVIER LOPEZ", javier.Name)
	require.Len(t, javier.Segments, 2, "rows for one employee-day merge into one record")
	assert.Equal(t, 8*60+24, javier.Segments[0].In)
	assert.Equal(t, 13*60+45, javier.Segments[1].In)

	alex := punches[model.PunchKey{Key: "alex worker", Date: day}]
	require.NotNil(t, alex)
	assert.Len(t, alex.Segments, 1, "the row with no date is dropped")

	// The all-dash row carries no punch and is dropped.
	assert.Len(t, punches, 2)
}

func TestReadPunches_SegmentsSortedByIn(t *testing.T) {
	path := writeCSV(t, "punches.csv", `EMP L NAME,EMP F NAME,DATE,IN,OUT
WORKER,ALEX,01/06/2025,1:45 PM,5:00 PM
WORKER,ALEX,01/06/2025,8:24 AM,1:00 PM
`)
	punches, err := ReadPunches(path)
	require.NoError(t, err)

	alex := punches[model.PunchKey{Key: "alex worker", Date: model.NewDate(2025, 1, 6)}]
	require.NotNil(t, alex)
	require.Len(t, alex.Segments, 2)
	assert.Less(t, alex.Segments[0].In, alex.Segments[1].In)
}

func TestReadPunches_FatalErrors(t *testing.T) {
	t.Run("no header row", func(t *testing.T) {
		path := writeCSV(t, "punches.csv", "just,some,cells\nnothing,here,either\n")
		_, err := ReadPunches(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "header row not found")
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeCSV(t, "punches.csv", "EMP L NAME,EMP F NAME,DATE,IN\nLOPEZ,JAVIER,01/06/2025,8:24 AM\n")
		_, err := ReadPunches(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing column: OUT")
	})

	t.Run("unrecognized time format", func(t *testing.T) {
		path := writeCSV(t, "punches.csv", "EMP L NAME,EMP F NAME,DATE,IN,OUT\nLOPEZ,JAVIER,01/06/2025,morning,5:00 PM\n")
		_, err := ReadPunches(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized time format")
	})
}

func TestReadPunches_MalformedDateRowDropped(t *testing.T) {
	path := writeCSV(t, "punches.csv", `EMP L NAME,EMP F NAME,DATE,IN,OUT
LOPEZ,JAVIER,not-a-date,8:24 AM,1:00 PM
WORKER,ALEX,01/06/2025,7:15 AM,4:44 PM
`)
	punches, err := ReadPunches(path)
	require.NoError(t, err)
	assert.Len(t, punches, 1)
}

func TestTargetDates(t *testing.T) {
	path := writeCSV(t, "punches.csv", sampleExport)
	punches, err := ReadPunches(path)
	require.NoError(t, err)

	dates := TargetDates(punches)
	assert.Equal(t, map[model.Date]bool{model.NewDate(2025, 1, 6): true}, dates)
}

func TestReadReportRange(t *testing.T) {
	t.Run("from preamble", func(t *testing.T) {
		path := writeCSV(t, "punches.csv", sampleExport)
		r, err := ReadReportRange(path)
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, model.NewDate(2025, 1, 6), r.Start)
		assert.Equal(t, model.NewDate(2025, 1, 12), r.End)
	})

	t.Run("from filename", func(t *testing.T) {
		path := writeCSV(t, "report_2025-01-06_2025-01-12.csv", "EMP L NAME,EMP F NAME,DATE,IN,OUT\n")
		r, err := ReadReportRange(path)
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, model.NewDate(2025, 1, 6), r.Start)
	})

	t.Run("absent range is not an error", func(t *testing.T) {
		path := writeCSV(t, "punches.csv", "EMP L NAME,EMP F NAME,DATE,IN,OUT\n")
		r, err := ReadReportRange(path)
		require.NoError(t, err)
		assert.Nil(t, r)
	})
}

func TestSheetHint(t *testing.T) {
	cases := []struct {
		name  string
		start model.Date
		end   model.Date
		want  string
	}{
		{"start on monday", model.NewDate(2025, 1, 6), model.NewDate(2025, 1, 12), "0106"},
		{"first monday inside range", model.NewDate(2025, 1, 4), model.NewDate(2025, 1, 12), "0106"},
		{"no monday in range falls back to start", model.NewDate(2025, 1, 7), model.NewDate(2025, 1, 9), "0107"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SheetHint(&DateRange{Start: tc.start, End: tc.end})
			assert.Equal(t, tc.want, got)
		})
	}
	assert.Equal(t, "", SheetHint(nil))
}
