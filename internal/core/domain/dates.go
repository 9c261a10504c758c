package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format used in stored records.
const DateLayout = "2006-01-02"

// dottedLayout is the legacy day-first format some stored records carry.
const dottedLayout = "02.01.2006"

// ParseDate parses a calendar date in either ISO (2006-01-02) or dotted
// (02.01.2006) form, returning a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	layout := DateLayout
	if strings.Contains(s, ".") {
		layout = dottedLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of full days from a to b (negative when b is
// before a). Both are expected to be midnight-aligned.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
