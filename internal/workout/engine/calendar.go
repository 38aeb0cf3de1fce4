package engine

import (
	"fmt"
	"sort"
	"time"
)

// NoDay fills the grid cells outside of the month.
const NoDay = 0

type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

type CalendarMonth struct {
	YearMonth
	FirstDayOfWeek time.Weekday `json:"firstDayOfWeek"`
	// Weeks rows always have 7 cells; days outside the month are NoDay.
	Weeks [][7]int  `json:"weeks"`
	Prev  YearMonth `json:"prev"`
	Next  YearMonth `json:"next"`
}

// MonthGrid lays the month out in weeks starting on Sunday.
func MonthGrid(year, month int) (*CalendarMonth, error) {
	return MonthGridStartingOn(year, month, time.Sunday)
}

func MonthGridStartingOn(year, month int, firstDayOfWeek time.Weekday) (*CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if firstDayOfWeek < time.Sunday || firstDayOfWeek > time.Saturday {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekday, firstDayOfWeek)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) - int(firstDayOfWeek) + 7) % 7

	cells := offset + daysInMonth
	weeks := make([][7]int, (cells+6)/7)
	for day := 1; day <= daysInMonth; day++ {
		pos := offset + day - 1
		weeks[pos/7][pos%7] = day
	}

	ym := YearMonth{Year: year, Month: time.Month(month)}
	return &CalendarMonth{
		YearMonth:      ym,
		FirstDayOfWeek: firstDayOfWeek,
		Weeks:          weeks,
		Prev:           ym.Prev(),
		Next:           ym.Next(),
	}, nil
}

// FilledDays returns the sorted day numbers of the month on which at least one entry was logged.
func FilledDays(logs []LogEntry, year, month int) ([]int, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	seen := map[int]bool{}
	for _, e := range logs {
		y, m, d := e.Date.Date()
		if y == year && int(m) == month {
			seen[d] = true
		}
	}

	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days, nil
}
