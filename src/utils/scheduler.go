package utils

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"token-pulse/src/logger"
)

// PeriodicTask runs Fn on a fixed interval from a single goroutine, so two
// invocations never overlap. It can be paused and resumed, and RunOnce lets
// callers single-step it without waiting on the clock.
type PeriodicTask struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context)
	Logger   *logger.Logger

	mu     sync.Mutex
	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}

	runMu sync.Mutex
	runs  atomic.Int64
}

// -----------------------------------------------------------------------------

func NewPeriodicTask(name string, interval time.Duration, fn func(ctx context.Context), l *logger.Logger) *PeriodicTask {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &PeriodicTask{
		Name:     name,
		Interval: interval,
		Fn:       fn,
		Logger:   l,
	}
}

// -----------------------------------------------------------------------------

// Run starts the task and blocks until ctx is cancelled, then stops it.
// Pause/Resume keep working while Run is in effect.
func (t *PeriodicTask) Run(ctx context.Context) error {
	t.mu.Lock()
	t.base = ctx
	t.mu.Unlock()

	if err := t.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return t.Stop()
}

// -----------------------------------------------------------------------------

// Start launches the ticking goroutine.
func (t *PeriodicTask) Start(parent context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return fmt.Errorf("task %s is already running", t.Name)
	}
	if parent.Err() != nil {
		return parent.Err()
	}

	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.loop(ctx, t.done)

	if t.Logger != nil {
		t.Logger.Info("Started periodic task %s (every %v)", t.Name, t.Interval)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (t *PeriodicTask) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.RunOnce(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// Stop cancels the ticking goroutine and waits for it to exit.
// Stopping a stopped task is a no-op.
func (t *PeriodicTask) Stop() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	if t.Logger != nil {
		t.Logger.Info("Stopped periodic task %s", t.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Pause is Stop under the name the control plane uses.
func (t *PeriodicTask) Pause() error {
	return t.Stop()
}

// -----------------------------------------------------------------------------

// Resume restarts a paused task under the context given to Run.
func (t *PeriodicTask) Resume() error {
	t.mu.Lock()
	base := t.base
	t.mu.Unlock()

	if base == nil {
		base = context.Background()
	}
	return t.Start(base)
}

// -----------------------------------------------------------------------------

// RunOnce invokes Fn synchronously, serialized with the ticking goroutine.
func (t *PeriodicTask) RunOnce(ctx context.Context) {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	t.Fn(ctx)
	t.runs.Add(1)
}

// -----------------------------------------------------------------------------

// IsRunning reports whether the ticking goroutine is active.
func (t *PeriodicTask) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// -----------------------------------------------------------------------------

// Runs returns how many times Fn has completed.
func (t *PeriodicTask) Runs() int64 {
	return t.runs.Load()
}
