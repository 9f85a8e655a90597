// Package datecode parses the date shapes that appear in metal price
// exports and maps calendar days to sortable ISO keys.
package datecode

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the ISO day-key layout used for indexing and string
// comparison throughout the pipeline.
const KeyLayout = "2006-01-02"

var (
	dmyPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)
	keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// genericLayouts are tried, in order, when the D/M/Y pattern does not
// match. Times are truncated to the day.
var genericLayouts = []string{
	KeyLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseFlexible parses D/M/Y or D-M-Y with 1-2 digit day/month and a
// 2 or 4 digit year, falling back to a set of generic layouts. Two
// digit years pivot at 50: yy > 50 becomes 19yy, otherwise 20yy.
// The result is local midnight. Returns false for anything it cannot
// parse; it never panics.
func ParseFlexible(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year > 50 {
				year += 1900
			} else {
				year += 2000
			}
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return Midnight(year, time.Month(month), day), true
	}

	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Midnight(t.Year(), t.Month(), t.Day()), true
		}
	}
	return time.Time{}, false
}

// Midnight constructs the given calendar day at local midnight.
func Midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// Truncate drops the time-of-day component of t.
func Truncate(t time.Time) time.Time {
	return Midnight(t.Year(), t.Month(), t.Day())
}

// ToKey formats a date as its "YYYY-MM-DD" key.
func ToKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// FromKey parses a strict "YYYY-MM-DD" key back into a local-midnight
// date. Round-trips exactly with ToKey. Rejects any other shape,
// including calendar-invalid keys such as "2023-02-31".
func FromKey(key string) (time.Time, bool) {
	if !keyPattern.MatchString(key) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SameDay reports whether a and b are the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
