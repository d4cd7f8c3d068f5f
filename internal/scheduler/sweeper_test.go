package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/domain"
	customError "github.com/prasetyo/canteen-compliance/pkg/errors"
)

// fakeRunner counts sweeps and can block until released.
type fakeRunner struct {
	mu      sync.Mutex
	runs    int
	block   chan struct{}
	failErr error
}

func (f *fakeRunner) RunSweep(ctx context.Context) (*domain.SweepReport, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.failErr != nil {
		return nil, f.failErr
	}
	return &domain.SweepReport{}, nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func newTestSweeper(runner SweepRunner, now time.Time) *Sweeper {
	s := NewSweeper(runner, zap.NewNop(), "17:00", time.Minute, time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func TestRunNowExecutesSweep(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestSweeper(runner, time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC))

	report, err := s.RunNow(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, 1, runner.count())
}

func TestRunNowPropagatesSweepError(t *testing.T) {
	runner := &fakeRunner{failErr: errors.New("fetch failed")}
	s := newTestSweeper(runner, time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC))

	_, err := s.RunNow(context.Background())
	assert.Error(t, err)

	// The guard is released after a failed run.
	runner.failErr = nil
	_, err = s.RunNow(context.Background())
	assert.NoError(t, err)
}

func TestConcurrentTriggerIsDropped(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := newTestSweeper(runner, time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC))

	done := make(chan struct{})
	go func() {
		_, _ = s.RunNow(context.Background())
		close(done)
	}()

	// Wait for the first sweep to be in flight.
	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, time.Millisecond)

	_, err := s.RunNow(context.Background())
	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeSweepInProgress, businessErr.Code)

	close(runner.block)
	<-done

	// The dropped trigger never reached the runner.
	assert.Equal(t, 1, runner.count())
}

func TestDueOncePerDay(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestSweeper(runner, time.Time{})

	day := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

	// Before the slot nothing is due.
	assert.False(t, s.due(day.Add(16*time.Hour)))

	// At and after the slot a first run is due.
	assert.True(t, s.due(day.Add(17*time.Hour)))
	assert.True(t, s.due(day.Add(23*time.Hour)))

	// After a run that day, nothing more is due until tomorrow's slot.
	s.now = func() time.Time { return day.Add(17 * time.Hour) }
	_, err := s.RunNow(context.Background())
	assert.NoError(t, err)

	assert.False(t, s.due(day.Add(18*time.Hour)))
	assert.False(t, s.due(day.AddDate(0, 0, 1).Add(16*time.Hour)))
	assert.True(t, s.due(day.AddDate(0, 0, 1).Add(17*time.Hour)))
}

func TestStartupCatchUp(t *testing.T) {
	runner := &fakeRunner{}

	// Process starts at 20:00, three hours past the slot, no run yet today.
	now := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)
	s := newTestSweeper(runner, now)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, time.Millisecond)
}

func TestStatus(t *testing.T) {
	runner := &fakeRunner{}
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	s := newTestSweeper(runner, now)

	status := s.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.LastRun)
	if assert.NotNil(t, status.NextRun) {
		assert.Equal(t, time.Date(2024, 6, 14, 17, 0, 0, 0, time.UTC), *status.NextRun)
	}

	_, err := s.RunNow(context.Background())
	assert.NoError(t, err)

	status = s.Status()
	assert.False(t, status.Running)
	if assert.NotNil(t, status.LastRun) {
		assert.Equal(t, now, *status.LastRun)
	}
	// Ran today, so the next slot is tomorrow.
	if assert.NotNil(t, status.NextRun) {
		assert.Equal(t, time.Date(2024, 6, 15, 17, 0, 0, 0, time.UTC), *status.NextRun)
	}
}
