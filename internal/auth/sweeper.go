package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/trainlog/internal/telemetry/metrics"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// SessionSweeper periodically removes expired sessions.
type SessionSweeper struct {
	cron           *cron.Cron
	service        *Service
	metricsManager *metrics.Manager
}

// NewSessionSweeper schedules the sweep using a cron spec, e.g. "@every 8h" or "0 3 * * *".
func NewSessionSweeper(service *Service, schedule string, metricsManager *metrics.Manager) (*SessionSweeper, error) {
	s := &SessionSweeper{
		cron:           cron.New(cron.WithLocation(time.UTC)),
		service:        service,
		metricsManager: metricsManager,
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep [%s]: %w", schedule, err)
	}
	return s, nil
}

func (s *SessionSweeper) Sweep(ctx context.Context) {
	start := time.Now()
	removed, err := s.service.ScanAndClean(ctx)
	if err != nil {
		log.Errorf("session sweep: %s", err)
		return
	}

	s.metricsManager.HistSessionSweepDuration.Observe(time.Since(start).Seconds())
	s.metricsManager.CounterSessionsSwept.Add(float64(removed))
	if removed > 0 {
		log.Infof("session sweep removed %d sessions", removed)
	}
}

func (s *SessionSweeper) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
