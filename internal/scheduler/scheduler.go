// Package scheduler periodically executes recurring transactions that have
// come due.
package scheduler

import (
	"context"
	"time"

	"moneylovers/internal/clock"
	"moneylovers/internal/logger"
	"moneylovers/internal/services"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = time.Hour

// Runner executes every rule due on asOf.
type Runner interface {
	RunDue(asOf time.Time) (*services.RunSummary, error)
}

// Scheduler runs one pass at a time, on every tick and whenever Notify is
// called.
type Scheduler struct {
	runner        Runner
	clock         clock.Clock
	checkInterval time.Duration
	startDelay    time.Duration
	notifyCh      chan struct{}
}

// New creates a Scheduler that checks every interval.
func New(runner Runner, clk clock.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		runner:        runner,
		clock:         clk,
		checkInterval: interval,
		startDelay:    2 * time.Second,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate pass. Non-blocking if a pass is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log := logger.Named("scheduler")
	log.Infow("recurring scheduler started", "interval", s.checkInterval.String())

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Give startup migrations a moment before the first pass
	select {
	case <-ctx.Done():
		return
	case <-time.After(s.startDelay):
	}

	s.check()

	for {
		select {
		case <-ctx.Done():
			log.Infow("recurring scheduler stopped")
			return
		case <-ticker.C:
			s.check()
		case <-s.notifyCh:
			log.Infow("recurring scheduler triggered")
			s.check()
		}
	}
}

// RunOnce performs a single pass for today and returns its summary.
func (s *Scheduler) RunOnce() (*services.RunSummary, error) {
	return s.runner.RunDue(s.clock.Today())
}

func (s *Scheduler) check() {
	if _, err := s.RunOnce(); err != nil {
		logger.Named("scheduler").Errorw("recurring scheduler pass failed", "error", err)
	}
}
