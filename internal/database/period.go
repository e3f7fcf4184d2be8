package database

import (
	"time"
)

// TimestampLayout is the format of the analyses.timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored timestamp. Unversioned legacy rows carry
// fractional seconds, which are accepted too.
func ParseTimestamp(ts string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthKey truncates a stored timestamp to YYYY-MM.
// Returns "" when the timestamp cannot be parsed.
func MonthKey(ts string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ""
	}
	return t.Format("2006-01")
}

// DayKey truncates a stored timestamp to YYYY-MM-DD.
func DayKey(ts string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatMonthDisplay formats a YYYY-MM key for display, e.g. "Feb 2026".
func FormatMonthDisplay(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan 2006")
}
