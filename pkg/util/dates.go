package util

import (
	"strings"
	"time"
)

// TwoDigitYearPivot bounds how far into the future a two-digit year may land
// before it is moved back a century.
var TwoDigitYearPivot = 20

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"1/2/2006 15:04",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "Jan 2 2006", "January 2 2006",
		"2 Jan 2006", "2 January 2006", "02-Jan-2006", "2-Jan-2006",
		"Mon, Jan 2, 2006", "Monday, January 2, 2006",
		"20060102",
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "01-02-06", "1.2.06", "01.02.06",
		"02-Jan-06", "2-Jan-06",
	}
)

// ParseDate reads a calendar date from free-form text. The result is
// normalized to midnight UTC. ok is false for blank, sentinel or
// unrecognized input.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsSentinel(s) {
		return time.Time{}, false
	}

	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return TruncateDate(parsed), true
		}
	}

	for _, layout := range fourDigitYearLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return TruncateDate(parsed), true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			if parsed.Year() > pivotYear {
				parsed = parsed.AddDate(-100, 0, 0)
			}
			return TruncateDate(parsed), true
		}
	}

	return time.Time{}, false
}

// TruncateDate drops the time of day and location.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSentinel reports whether s is one of the display placeholders
// ("None", "N/A") that stand in for a missing value.
func IsSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n/a":
		return true
	}
	return false
}
