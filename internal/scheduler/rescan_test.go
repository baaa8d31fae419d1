package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koreader-utils/quotescan/internal/harvest"
)

type stubHarvester struct {
	mu    sync.Mutex
	calls int
}

func (s *stubHarvester) Harvest() (harvest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return harvest.Result{Found: 1, Saved: true}, nil
}

func (s *stubHarvester) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 * * * *"))
	assert.NoError(t, ValidateSchedule("*/15 2 * * 1"))
	assert.Error(t, ValidateSchedule("not a schedule"))
	assert.Error(t, ValidateSchedule("* * * * * *"))
}

func TestNextRunTime(t *testing.T) {
	next, err := NextRunTime("0 * * * *")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
	assert.Zero(t, next.Minute())

	_, err = NextRunTime("bogus")
	assert.Error(t, err)
}

func TestRescanScheduler_StartStop(t *testing.T) {
	s := NewRescanScheduler(&stubHarvester{}, "0 * * * *")

	require.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestRescanScheduler_StartIsIdempotent(t *testing.T) {
	s := NewRescanScheduler(&stubHarvester{}, "0 * * * *")

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestRescanScheduler_InvalidSchedule(t *testing.T) {
	s := NewRescanScheduler(&stubHarvester{}, "every now and then")

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestRescanScheduler_RestartAfterStop(t *testing.T) {
	s := NewRescanScheduler(&stubHarvester{}, "0 * * * *")

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	// The stopped run's context watcher must exit quietly, not stop the
	// restarted scheduler.
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Never(t, func() bool {
		return !s.IsRunning()
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestRescanScheduler_Reschedule(t *testing.T) {
	s := NewRescanScheduler(&stubHarvester{}, "0 * * * *")
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NoError(t, s.Reschedule("30 * * * *"))

	require.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 30, next.Minute())

	assert.Error(t, s.Reschedule("bogus"))
}

func TestRescanScheduler_RunNow(t *testing.T) {
	h := &stubHarvester{}
	s := NewRescanScheduler(h, "0 * * * *")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	s.RunNow()

	assert.Eventually(t, func() bool {
		return h.Calls() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRescanScheduler_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewRescanScheduler(&stubHarvester{}, "0 * * * *")

	require.NoError(t, s.Start(ctx))
	require.True(t, s.IsRunning())

	cancel()

	assert.Eventually(t, func() bool {
		return !s.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)
}
