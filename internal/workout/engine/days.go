package engine

import "time"

const DayLayout = "2006-01-02"

// truncateDay drops the time of day, keeping the calendar date as seen in t's location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayCount is the number of whole days from start to end. Spans beyond the range of
// time.Duration saturate.
func dayCount(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start)) / (24 * time.Hour))
}

// DaysBetween returns every calendar day in [start, end], ascending.
func DaysBetween(start, end time.Time) []time.Time {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekdayLabel is the short weekday name of the date, e.g. "Mon".
func WeekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

// ISOWeekBounds returns the Monday and the Sunday of the ISO week containing date.
func ISOWeekBounds(date time.Time) (time.Time, time.Time) {
	day := truncateDay(date)
	sinceMonday := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -sinceMonday)
	return monday, monday.AddDate(0, 0, 6)
}
