package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/metrics"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/internal/workout/logs"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=stats_mocks_test.go -package=stats_test

type logSource interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]logs.LogEntry, error)
}

type catalogProvider interface {
	Catalog(ctx context.Context, userID int) (engine.Catalog, error)
}

type profileSource interface {
	DifficultyProfile(ctx context.Context, userID int) (engine.DifficultyProfile, error)
}

type Progress struct {
	From       time.Time
	To         time.Time
	WindowDays int
	Profile    engine.DifficultyProfile
	Multiplier float64
	Totals     map[engine.Category]float64
	Targets    map[engine.Category]float64
	Scores     map[engine.Category]int
	HasData    bool
}

type Calendar struct {
	*engine.CalendarMonth
	FilledDays []int
}

// Service answers the progress questions of a single user. Every call reads a fresh
// snapshot of that user's logs and catalog, so results never mix data of other users.
type Service struct {
	logs           logSource
	catalog        catalogProvider
	profiles       profileSource
	metricsManager *metrics.Manager
}

func NewService(
	logStore logSource,
	catalog catalogProvider,
	profiles profileSource,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		logs:           logStore,
		catalog:        catalog,
		profiles:       profiles,
		metricsManager: metricsManager,
	}
}

func (s *Service) snapshot(ctx context.Context, userID int, from, to time.Time) ([]engine.LogEntry, engine.Catalog, error) {
	entries, err := s.logs.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list logs: %w", err)
	}
	catalog, err := s.catalog.Catalog(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get catalog: %w", err)
	}
	return logs.ToEngine(entries), catalog, nil
}

func (s *Service) reportWarnings(userID int, warnings []engine.MissingExerciseWarning) {
	if len(warnings) == 0 {
		return
	}
	s.metricsManager.CounterIntegrityWarnings.Add(float64(len(warnings)))
	for _, w := range warnings {
		log.Warnf("stats for user %d: %s", userID, w)
	}
}

func (s *Service) Daily(ctx context.Context, userID int, from, to time.Time, reverse bool) (_ *engine.DailyTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.daily")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	entries, catalog, err := s.snapshot(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	daily, err := engine.DailyExerciseTotals(entries, catalog, from, to, engine.WithReversedSeries(reverse))
	if err != nil {
		return nil, err
	}
	s.reportWarnings(userID, daily.Warnings)
	span.SetAttributes(attribute.Int("series", len(daily.Series)))
	return daily, nil
}

func (s *Service) Categories(ctx context.Context, userID int, from, to time.Time) (_ *engine.CategorySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.categories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	entries, catalog, err := s.snapshot(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary, err := engine.CategoryTotals(entries, catalog, from, to)
	if err != nil {
		return nil, err
	}
	s.reportWarnings(userID, summary.Warnings)
	return summary, nil
}

// Week returns the category totals of the Monday to Sunday week containing date.
func (s *Service) Week(ctx context.Context, userID int, date time.Time) (*engine.CategorySummary, error) {
	monday, sunday := engine.ISOWeekBounds(date)
	return s.Categories(ctx, userID, monday, sunday)
}

// Progress scores the window of windowDays days ending on (and including) today.
func (s *Service) Progress(ctx context.Context, userID int, windowDays int, today time.Time) (_ *Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("window", windowDays))

	if windowDays < 1 {
		return nil, fmt.Errorf("%w: window of %d days", engine.ErrInvalidRange, windowDays)
	}

	profile, err := s.profiles.DifficultyProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get difficulty profile: %w", err)
	}

	to := today
	from := to.AddDate(0, 0, -(windowDays - 1))
	summary, err := s.Categories(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	multiplier := profile.Multiplier()
	targets := make(map[engine.Category]float64, len(engine.Categories))
	for _, c := range engine.Categories {
		targets[c] = engine.AdjustedTarget(c, multiplier, windowDays)
	}

	return &Progress{
		From:       from,
		To:         to,
		WindowDays: windowDays,
		Profile:    profile,
		Multiplier: multiplier,
		Totals:     summary.Totals,
		Targets:    targets,
		Scores:     engine.ProgressScore(summary.Totals, multiplier, windowDays),
		HasData:    summary.HasData,
	}, nil
}

func (s *Service) Calendar(ctx context.Context, userID int, year, month int) (_ *Calendar, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.calendar")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("year", year), attribute.Int("month", month))

	grid, err := engine.MonthGrid(year, month)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	entries, err := s.logs.ListRange(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	filled, err := engine.FilledDays(logs.ToEngine(entries), year, month)
	if err != nil {
		return nil, err
	}

	return &Calendar{
		CalendarMonth: grid,
		FilledDays:    filled,
	}, nil
}
