// Package scheduler runs the daily compliance sweep. The Sweeper is an
// explicit service object with Start/Stop/RunNow/Status; nothing starts as
// an import side effect.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/domain"
	customError "github.com/prasetyo/canteen-compliance/pkg/errors"
)

// SweepRunner is the part of the compliance service the scheduler drives.
type SweepRunner interface {
	RunSweep(ctx context.Context) (*domain.SweepReport, error)
}

// Sweeper fires the sweep once per calendar day at a fixed wall-clock time.
// It polls at a fine-grained interval rather than sleeping until the slot,
// so a process started after today's slot catches up immediately. Triggers
// arriving while a sweep is running are dropped, not queued.
type Sweeper struct {
	runner       SweepRunner
	log          *zap.Logger
	pollInterval time.Duration
	hour, minute int
	loc          *time.Location

	mu      sync.Mutex
	running bool
	started bool
	lastRun time.Time

	stop chan struct{}
	wg   sync.WaitGroup

	// now is swappable for tests
	now func() time.Time
}

func NewSweeper(runner SweepRunner, log *zap.Logger, at string, pollInterval time.Duration, loc *time.Location) *Sweeper {
	t, _ := time.Parse("15:04", at)
	return &Sweeper{
		runner:       runner,
		log:          log,
		pollInterval: pollInterval,
		hour:         t.Hour(),
		minute:       t.Minute(),
		loc:          loc,
		stop:         make(chan struct{}),
		now:          time.Now,
	}
}

// Start launches the poll loop. Calling Start twice is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.run()

	s.log.Info("sweep scheduler started",
		zap.String("daily_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
		zap.Duration("poll_interval", s.pollInterval),
	)
}

// Stop halts the poll loop and waits for a sweep in flight to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	s.log.Info("sweep scheduler stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	// Startup catch-up: fire right away if today's slot already passed and
	// no run has happened today.
	s.tick()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick fires the sweep when the daily slot is due.
func (s *Sweeper) tick() {
	if s.due(s.now().In(s.loc)) {
		if _, err := s.RunNow(context.Background()); err != nil {
			s.log.Warn("scheduled sweep failed", zap.Error(err))
		}
	}
}

// due reports whether the slot for now's calendar day has passed without a
// run having happened that day.
func (s *Sweeper) due(now time.Time) bool {
	slot := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if now.Before(slot) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun.IsZero() {
		return true
	}
	last := s.lastRun.In(s.loc)
	return last.Year() != now.Year() || last.YearDay() != now.YearDay()
}

// RunNow triggers a sweep immediately. If a sweep is already running the
// trigger is dropped and SWEEP_IN_PROGRESS is returned; this is an expected
// outcome, not a failure.
func (s *Sweeper) RunNow(ctx context.Context) (*domain.SweepReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Info("sweep trigger dropped, already running")
		return nil, customError.WrapSweepInProgress()
	}
	s.running = true
	s.lastRun = s.now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return s.runner.RunSweep(ctx)
}

// Status reports the scheduler state.
func (s *Sweeper) Status() domain.SweepStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := domain.SweepStatusResponse{Running: s.running}
	if !s.lastRun.IsZero() {
		last := s.lastRun
		status.LastRun = &last
	}
	next := s.nextRunLocked()
	status.NextRun = &next
	return status
}

// nextRunLocked computes the next scheduled fire time. Callers hold mu.
func (s *Sweeper) nextRunLocked() time.Time {
	now := s.now().In(s.loc)
	slot := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)

	ranToday := false
	if !s.lastRun.IsZero() {
		last := s.lastRun.In(s.loc)
		ranToday = last.Year() == now.Year() && last.YearDay() == now.YearDay()
	}

	if ranToday || !now.Before(slot) {
		if ranToday {
			return slot.AddDate(0, 0, 1)
		}
		// Slot passed with no run yet: due on the next poll.
		return now
	}
	return slot
}
