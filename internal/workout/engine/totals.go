package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Series is the per day load of one exercise, aligned with DailyTotals.Days.
type Series struct {
	ExerciseID int       `json:"exerciseId"`
	Name       string    `json:"name"`
	Category   Category  `json:"category"`
	Color      string    `json:"color"`
	Values     []float64 `json:"values"`
}

func (s Series) Total() float64 {
	var total float64
	for _, v := range s.Values {
		total += v
	}
	return total
}

type DailyTotals struct {
	Days   []time.Time
	Series []Series
	// CategoryOf maps each exercise present in Series to its category.
	CategoryOf map[int]Category
	// HasData is false when no log entry fell into the range; Series is then a zero filled skeleton.
	HasData  bool
	Warnings []MissingExerciseWarning
}

func (d *DailyTotals) Labels() []string {
	labels := make([]string, len(d.Days))
	for i, day := range d.Days {
		labels[i] = day.Format(DayLayout)
	}
	return labels
}

// WarningsErr combines all integrity warnings into a single error, or nil if there are none.
func (d *DailyTotals) WarningsErr() error {
	return combineWarnings(d.Warnings)
}

type totalsOptions struct {
	reverse bool
	load    LoadFunc
}

type TotalsOption func(*totalsOptions)

// WithReversedSeries reverses the series order, used by stacked charts that draw bottom-up.
func WithReversedSeries(reverse bool) TotalsOption {
	return func(o *totalsOptions) {
		o.reverse = reverse
	}
}

// WithLoadFunc replaces the default sets x reps x weight load formula.
func WithLoadFunc(f LoadFunc) TotalsOption {
	return func(o *totalsOptions) {
		if f != nil {
			o.load = f
		}
	}
}

// DailyExerciseTotals sums the load of logs per (day, exercise) over the inclusive range
// [start, end]. Every day of the range appears once in the result, and every series has a
// value for every day.
func DailyExerciseTotals(logs []LogEntry, catalog Catalog, start, end time.Time, opts ...TotalsOption) (*DailyTotals, error) {
	options := totalsOptions{load: VolumeLoad}
	for _, opt := range opts {
		opt(&options)
	}

	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInvalidRange, end.Format(DayLayout), start.Format(DayLayout))
	}

	days := DaysBetween(start, end)
	dayIndex := make(map[time.Time]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	result := &DailyTotals{
		Days:       days,
		CategoryOf: map[int]Category{},
	}

	// summing in a canonical order keeps float results independent of the input order
	inRange := make([]LogEntry, 0, len(logs))
	for _, e := range logs {
		if _, ok := dayIndex[truncateDay(e.Date)]; ok {
			inRange = append(inRange, e)
		}
	}
	sortEntries(inRange)

	values := map[int][]float64{}
	for _, e := range inRange {
		result.HasData = true
		if _, known := catalog[e.ExerciseID]; !known {
			result.Warnings = append(result.Warnings, MissingExerciseWarning{
				EntryID:    e.ID,
				ExerciseID: e.ExerciseID,
				Date:       truncateDay(e.Date),
			})
			continue
		}
		v, ok := values[e.ExerciseID]
		if !ok {
			v = make([]float64, len(days))
			values[e.ExerciseID] = v
		}
		v[dayIndex[truncateDay(e.Date)]] += options.load(e)
	}

	// no usable entry, either none in range or all referencing unknown exercises
	if len(values) == 0 {
		for id, info := range catalog {
			if info.IsActive() {
				values[id] = make([]float64, len(days))
			}
		}
		if len(values) == 0 && !result.HasData {
			return nil, ErrNoData
		}
	}

	result.Series = make([]Series, 0, len(values))
	for id, v := range values {
		info := catalog[id]
		result.Series = append(result.Series, Series{
			ExerciseID: id,
			Name:       info.Name,
			Category:   info.Category,
			Color:      info.Category.Color(),
			Values:     v,
		})
		result.CategoryOf[id] = info.Category
	}
	sortSeries(result.Series)
	if options.reverse {
		for i, j := 0, len(result.Series)-1; i < j; i, j = i+1, j-1 {
			result.Series[i], result.Series[j] = result.Series[j], result.Series[i]
		}
	}

	return result, nil
}

func sortEntries(entries []LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ExerciseID != b.ExerciseID {
			return a.ExerciseID < b.ExerciseID
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Load() < b.Load()
	})
}

func sortSeries(series []Series) {
	sort.Slice(series, func(i, j int) bool {
		a, b := series[i], series[j]
		if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
			return pa < pb
		}
		if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
			return na < nb
		}
		return a.ExerciseID < b.ExerciseID
	})
}

// CategorySummary is the load of a range collapsed over exercises. Daily and Totals
// always contain all categories.
type CategorySummary struct {
	Days     []time.Time
	Daily    map[Category][]float64
	Totals   map[Category]float64
	HasData  bool
	Warnings []MissingExerciseWarning
}

func (c *CategorySummary) Labels() []string {
	labels := make([]string, len(c.Days))
	for i, day := range c.Days {
		labels[i] = day.Format(DayLayout)
	}
	return labels
}

func (c *CategorySummary) Total() float64 {
	var total float64
	for _, cat := range Categories {
		total += c.Totals[cat]
	}
	return total
}

// Shares returns each category's percentage of the total load, rounded to one decimal.
// All categories are zero when there is no load.
func (c *CategorySummary) Shares() map[Category]float64 {
	shares := make(map[Category]float64, len(Categories))
	total := c.Total()
	for _, cat := range Categories {
		if total <= 0 {
			shares[cat] = 0
			continue
		}
		shares[cat] = math.Round(c.Totals[cat]/total*1000) / 10
	}
	return shares
}

func (c *CategorySummary) WarningsErr() error {
	return combineWarnings(c.Warnings)
}

// ByCategory collapses the exercise dimension of the daily totals.
func (d *DailyTotals) ByCategory() *CategorySummary {
	summary := newCategorySummary(d.Days)
	summary.HasData = d.HasData
	summary.Warnings = d.Warnings
	for _, s := range d.Series {
		cat := s.Category
		if !cat.IsValid() {
			cat = CategoryOther
		}
		daily := summary.Daily[cat]
		for i, v := range s.Values {
			daily[i] += v
		}
		summary.Totals[cat] += s.Total()
	}
	return summary
}

func newCategorySummary(days []time.Time) *CategorySummary {
	summary := &CategorySummary{
		Days:   days,
		Daily:  make(map[Category][]float64, len(Categories)),
		Totals: make(map[Category]float64, len(Categories)),
	}
	for _, cat := range Categories {
		summary.Daily[cat] = make([]float64, len(days))
		summary.Totals[cat] = 0
	}
	return summary
}

// CategoryTotals sums the load of logs per category over the inclusive range [start, end].
// A range without any data yields an all zero summary with HasData unset.
func CategoryTotals(logs []LogEntry, catalog Catalog, start, end time.Time, opts ...TotalsOption) (*CategorySummary, error) {
	daily, err := DailyExerciseTotals(logs, catalog, start, end, opts...)
	if errors.Is(err, ErrNoData) {
		return newCategorySummary(DaysBetween(start, end)), nil
	}
	if err != nil {
		return nil, err
	}
	return daily.ByCategory(), nil
}
