package dateutil

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

// ParseDate parses YYYY-MM-DD as a UTC calendar date.
func ParseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseMonth parses YYYY-MM and returns the first and last calendar day of that month.
func ParseMonth(v string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01", v, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid period format, expected YYYY-MM")
	}
	return t, t.AddDate(0, 1, -1), nil
}

// Truncate drops the clock part, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(DateLayout)
	return &v
}
