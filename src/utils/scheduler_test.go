package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickInterval(t *testing.T) {
	assert.Equal(t, DefaultTickInterval, TickInterval(0))
	assert.Equal(t, 250*time.Millisecond, TickInterval(250))
}

func TestPeriodicTask_RunsUntilCancelled(t *testing.T) {
	var calls atomic.Int64
	task := NewPeriodicTask("test", 5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- task.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, task.IsRunning())
	assert.Equal(t, calls.Load(), task.Runs())
}

func TestPeriodicTask_PauseResume(t *testing.T) {
	var calls atomic.Int64
	task := NewPeriodicTask("test", 5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, task.Start(ctx))
	assert.Error(t, task.Start(ctx), "second start must fail")

	require.NoError(t, task.Pause())
	assert.False(t, task.IsRunning())
	paused := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, calls.Load())

	require.NoError(t, task.Resume())
	assert.True(t, task.IsRunning())
	require.Eventually(t, func() bool { return calls.Load() > paused }, time.Second, time.Millisecond)
	require.NoError(t, task.Stop())
	require.NoError(t, task.Stop())
}

func TestPeriodicTask_RunOnce(t *testing.T) {
	var calls int
	task := NewPeriodicTask("manual", time.Hour, func(ctx context.Context) { calls++ }, nil)
	task.RunOnce(context.Background())
	task.RunOnce(context.Background())

	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), task.Runs())
	assert.False(t, task.IsRunning())
}
