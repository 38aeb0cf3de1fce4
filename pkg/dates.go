package pkg

import (
	"errors"
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into midnight UTC of that day.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day [%s] (expected YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// Day strips the clock part of t, keeping its calendar date, in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns the current calendar day in UTC.
func Today() time.Time {
	return Day(time.Now())
}

var ErrInvalidDayRange = errors.New("from date after to date")

// DayRange parses an optional from/to pair. A missing to defaults to today, a missing
// from to defaultDays days ending at to (inclusive).
func DayRange(fromStr, toStr string, defaultDays int, today time.Time) (time.Time, time.Time, error) {
	to := Day(today)
	if toStr != "" {
		d, err := ParseDay(toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}

	if defaultDays < 1 {
		defaultDays = 1
	}
	from := to.AddDate(0, 0, -(defaultDays - 1))
	if fromStr != "" {
		d, err := ParseDay(fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s > %s", ErrInvalidDayRange, FormatDay(from), FormatDay(to))
	}
	return from, to, nil
}
