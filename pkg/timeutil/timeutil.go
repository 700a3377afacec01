// Package timeutil holds the time conventions of the academic store.
// Grade timestamps are kept as UTC wall-clock values without a zone and at
// second precision; everything printed is UTC.
package timeutil

import "time"

// Standard formats used in reports and tool output.
const (
	// FormatDate is the ISO date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"

	// FormatDateTime is the ISO datetime format without zone.
	FormatDateTime = "2006-01-02 15:04:05"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Stored normalizes t to the form a grade timestamp takes in the store:
// UTC, truncated to whole seconds.
func Stored(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FormatDateStr formats a time as a UTC date string (YYYY-MM-DD).
func FormatDateStr(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// FormatDateTimeStr formats a time as a UTC datetime string.
func FormatDateTimeStr(t time.Time) string {
	return t.UTC().Format(FormatDateTime)
}

// DaysBetween returns the number of whole days between two times, negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(b.UTC().Sub(a.UTC()).Hours() / 24)
}
