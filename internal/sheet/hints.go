package sheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/grid"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

// Payroll staff sometimes annotate a block with an approved adjusted start,
// e.g. "Addj- 7:00am" or "in @ 8am wed", near the status row. A parsed hint
// becomes an extra acceptable clock-in for the day it names, or for the whole
// week when it names none.

var (
	hintTimeRe    = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	hintDateRe    = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})`)
	hintKeywords  = []string{"in", "addj", "adj"}
	weekdayHints  = map[string]time.Weekday{
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
	}
)

// startHints scans the cells around the status row for the first parseable
// adjusted-start annotation. At most one hint is kept per block.
func (e *Extractor) startHints(g *grid.Grid, statusRow int, datesByCol map[string]model.Date) map[model.Date]int {
	hints := make(map[model.Date]int)
	if statusRow == 0 {
		return hints
	}
	endCol := byte('H')
	if e.layout.HintColEnd != "" {
		endCol = e.layout.HintColEnd[0]
	}
	for row := statusRow - e.layout.HintRowSpan; row <= statusRow+e.layout.HintRowSpan; row++ {
		for col := byte('A'); col <= endCol; col++ {
			text, ok := g.Textual(row, string(col))
			if !ok {
				continue
			}
			day, minutes, ok := parseStartHint(text, datesByCol)
			if !ok {
				continue
			}
			hints[day] = minutes
			return hints
		}
	}
	return hints
}

// parseStartHint extracts (date, minutes) from one annotation. The zero Date
// means the hint applies to the whole week. ok=false when the text is not an
// adjusted-start annotation.
func parseStartHint(text string, datesByCol map[string]model.Date) (model.Date, int, bool) {
	lowered := strings.ToLower(text)
	keyword := strings.Contains(lowered, "@")
	for _, kw := range hintKeywords {
		if strings.Contains(lowered, kw) {
			keyword = true
			break
		}
	}
	if !keyword {
		return model.Date{}, 0, false
	}

	match := hintTimeRe.FindStringSubmatch(lowered)
	if match == nil {
		return model.Date{}, 0, false
	}
	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if hour > 12 || minute >= 60 {
		return model.Date{}, 0, false
	}
	meridiem := match[3]
	if meridiem == "" {
		meridiem = "am"
	}
	if meridiem == "pm" && hour != 12 {
		hour += 12
	}
	if meridiem == "am" && hour == 12 {
		hour = 0
	}

	return parseHintDate(lowered, datesByCol), hour*60 + minute, true
}

// parseHintDate matches an optional weekday word or m/d date against the
// block's week. The zero Date means no specific day was named.
func parseHintDate(text string, datesByCol map[string]model.Date) model.Date {
	for word, weekday := range weekdayHints {
		re := regexp.MustCompile(`\b` + word + `\b`)
		if !re.MatchString(text) {
			continue
		}
		for _, day := range datesByCol {
			if day.Weekday() == weekday {
				return day
			}
		}
		break
	}

	if match := hintDateRe.FindStringSubmatch(text); match != nil {
		month, _ := strconv.Atoi(match[1])
		dayNum, _ := strconv.Atoi(match[2])
		for _, day := range datesByCol {
			if int(day.Month) == month && day.Day == dayNum {
				return day
			}
		}
	}
	return model.Date{}
}
