package bodyweight

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/metrics"
	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=bodyweight_test

const (
	WeekRecords = 7
	maxWeightKg = 700
)

var ErrInvalidWeight = errors.New("invalid body weight")

type recordsRepo interface {
	Upsert(ctx context.Context, userID int, date time.Time, weightKg float64) (*Record, int, error)
	List(ctx context.Context, userID int, from, to time.Time) ([]Record, error)
	Latest(ctx context.Context, userID int, n int) ([]Record, error)
}

type Service struct {
	repo           recordsRepo
	metricsManager *metrics.Manager
}

func NewService(repo recordsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

// Record stores the weight reported for date and returns the stored record along with
// the number of skipped days that were filled with synthetic records.
func (s *Service) Record(ctx context.Context, userID int, date time.Time, weightKg float64) (_ *Record, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.bodyweight.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if weightKg <= 0 || weightKg > maxWeightKg || math.IsNaN(weightKg) {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidWeight, weightKg)
	}

	record, gapFilled, err := s.repo.Upsert(ctx, userID, pkg.Day(date), weightKg)
	if err != nil {
		return nil, 0, fmt.Errorf("upsert body weight: %w", err)
	}

	if gapFilled > 0 {
		s.metricsManager.CounterGapFilledDays.Add(float64(gapFilled))
		log.Debugf("user %d: filled %d skipped days before %s", userID, gapFilled, pkg.FormatDay(date))
	}
	span.SetAttributes(attribute.Int("record.id", record.ID), attribute.Int("gap_filled", gapFilled))

	return record, gapFilled, nil
}

func (s *Service) List(ctx context.Context, userID int, from, to time.Time) ([]Record, error) {
	records, err := s.repo.List(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list body weight: %w", err)
	}
	return records, nil
}

// Week returns the latest week of records, oldest first.
func (s *Service) Week(ctx context.Context, userID int) ([]Record, error) {
	records, err := s.repo.Latest(ctx, userID, WeekRecords)
	if err != nil {
		return nil, fmt.Errorf("latest body weight: %w", err)
	}
	return records, nil
}
