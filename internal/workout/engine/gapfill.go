package engine

import (
	"fmt"
	"time"
)

// MaxGapDays bounds how many placeholder days a single report may synthesize.
const MaxGapDays = 3660

// GapDay is a synthetic zero valued placeholder for a day without a record.
type GapDay struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
}

// FillMissingDays returns placeholders for every day strictly between the latest existing
// date and newest. Nothing is filled when there is no existing date, or when newest is not
// after the latest one (the caller then updates the record in place). A gap longer than
// MaxGapDays fails with ErrGapTooLong.
func FillMissingDays(existingDatesDescending []time.Time, newest time.Time) ([]GapDay, error) {
	for i := 1; i < len(existingDatesDescending); i++ {
		prev, cur := truncateDay(existingDatesDescending[i-1]), truncateDay(existingDatesDescending[i])
		if cur.After(prev) {
			return nil, fmt.Errorf(
				"%w: %s at %d after %s",
				ErrUnsortedDates, cur.Format(DayLayout), i, prev.Format(DayLayout),
			)
		}
	}
	if len(existingDatesDescending) == 0 {
		return nil, nil
	}

	latest := truncateDay(existingDatesDescending[0])
	newest = truncateDay(newest)
	if !newest.After(latest) {
		return nil, nil
	}

	missing := dayCount(latest, newest) - 1
	if missing > MaxGapDays {
		return nil, fmt.Errorf("%w: %d days, max %d", ErrGapTooLong, missing, MaxGapDays)
	}

	gaps := make([]GapDay, 0, missing)
	for d := latest.AddDate(0, 0, 1); d.Before(newest); d = d.AddDate(0, 0, 1) {
		gaps = append(gaps, GapDay{Date: d, Weekday: WeekdayLabel(d)})
	}
	return gaps, nil
}
