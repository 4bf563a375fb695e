// Package timeutil provides calendar helpers for progress tracking.
// All bookkeeping runs on UTC calendar days: a "study day" is the UTC date
// on which activity was recorded, and weeks start on Monday.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDate is the canonical date layout (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// FormatClock is the canonical wall-clock layout (HH:MM).
const FormatClock = "15:04"

// Today returns the current UTC date truncated to midnight.
func Today() time.Time {
	return StartOfDay(time.Now().UTC())
}

// Yesterday returns the UTC date one day before Today.
func Yesterday() time.Time {
	return Today().AddDate(0, 0, -1)
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the Monday 00:00 UTC of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	u := StartOfDay(t)
	weekday := int(u.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return u.AddDate(0, 0, -(weekday - 1))
}

// EndOfWeek returns the Sunday 00:00 UTC of the week containing t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// SameDay reports whether t1 and t2 fall on the same UTC date.
func SameDay(t1, t2 time.Time) bool {
	a, b := t1.UTC(), t2.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysBetween returns the number of whole calendar days from t1 to t2.
// Negative when t2 is before t1.
func DaysBetween(t1, t2 time.Time) int {
	a := StartOfDay(t1)
	b := StartOfDay(t2)
	return int(b.Sub(a).Hours() / 24)
}

// DaysUntil returns whole calendar days from today until t.
func DaysUntil(t time.Time) int {
	return DaysBetween(Today(), t)
}

// FormatDateStr formats t as a YYYY-MM-DD string in UTC.
func FormatDateStr(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// ParseDate parses a YYYY-MM-DD string as a UTC date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}

// ParseClock parses an HH:MM string.
func ParseClock(value string) (time.Time, error) {
	return time.Parse(FormatClock, value)
}

// PluralDays renders a day count with the correct unit: "1 day", "2 days".
func PluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
