package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSchedulerRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("not a cron", nil, nil)
	err := s.Start(context.Background(), func(time.Time) {})
	assert.Error(t, err)
	assert.NoError(t, s.Stop(context.Background()))
}

func TestCronSchedulerStartStop(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 1h", time.UTC, nil)
	require.NoError(t, s.Start(context.Background(), func(time.Time) {}))
	// second start is a no-op
	require.NoError(t, s.Start(context.Background(), func(time.Time) {}))
	assert.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestCronSchedulerNilJob(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 1h", nil, nil)
	assert.NoError(t, s.Start(context.Background(), nil))
}

func TestCronSchedulerSkipsOverlappingRuns(t *testing.T) {
	t.Parallel()

	var running, maxRunning, calls int32
	job := func(time.Time) {
		atomic.AddInt32(&calls, 1)
		n := atomic.AddInt32(&running, 1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		time.Sleep(2500 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	}

	s := NewCronScheduler("@every 1s", time.UTC, nil)
	require.NoError(t, s.Start(context.Background(), job))

	time.Sleep(4500 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestCronSchedulerStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewCronScheduler("@every 1h", time.UTC, nil)
	require.NoError(t, s.Start(ctx, func(time.Time) {}))

	cancel()

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cron == nil
	}, time.Second, 10*time.Millisecond)
}
