package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a string cannot be read as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate reads a calendar date. Besides YYYY-MM-DD it accepts RFC 3339
// timestamps and local date-times, whose time of day is kept but is
// irrelevant to callers that only look at the date part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate renders t in the canonical YYYY-MM-DD layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
