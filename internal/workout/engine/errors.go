package engine

import "errors"

var (
	ErrInvalidRange      = errors.New("end date before start date")
	ErrInvalidMonth      = errors.New("month must be within 1-12")
	ErrInvalidWeekday    = errors.New("invalid first day of week")
	ErrInvalidEntry      = errors.New("invalid workout log entry")
	ErrInvalidCategory   = errors.New("unknown exercise category")
	ErrInvalidDifficulty = errors.New("invalid difficulty profile")
	ErrUnsortedDates     = errors.New("existing dates are not sorted descending")
	ErrGapTooLong        = errors.New("too many days to fill")
	// ErrNoData is returned when a period has no log entries and no exercise is known,
	// so not even a zero-filled skeleton can be produced.
	ErrNoData = errors.New("no data for period")
)
