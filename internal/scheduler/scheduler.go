// Package scheduler runs periodic housekeeping for the web server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tripplanner/internal/logging"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule prunes idle sessions every 15 minutes.
const DefaultSchedule = "@every 15m"

// Pruner removes sessions idle for longer than maxIdle.
type Pruner interface {
	Prune(ctx context.Context, maxIdle time.Duration) (int, error)
}

// SessionPruner schedules Pruner runs with cron.
type SessionPruner struct {
	cron     *cron.Cron
	pruner   Pruner
	schedule string
	maxIdle  time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures the SessionPruner.
type Option func(*SessionPruner)

// WithSchedule sets the cron spec (e.g. "@hourly", "*/5 * * * *").
func WithSchedule(spec string) Option {
	return func(s *SessionPruner) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SessionPruner) {
		s.logger = logger
	}
}

// New creates a pruner that removes sessions idle longer than maxIdle.
func New(pruner Pruner, maxIdle time.Duration, opts ...Option) *SessionPruner {
	s := &SessionPruner{
		cron:     cron.New(),
		pruner:   pruner,
		schedule: DefaultSchedule,
		maxIdle:  maxIdle,
		timeout:  time.Minute,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the job and starts the cron loop in its own goroutine.
func (s *SessionPruner) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("session pruner started", "schedule", s.schedule, "max_idle", s.maxIdle)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *SessionPruner) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce prunes immediately and returns the number of sessions removed.
func (s *SessionPruner) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.pruner.Prune(ctx, s.maxIdle)
	if err != nil {
		s.logger.Error("session prune failed", "err", err)
	}
	return n
}
