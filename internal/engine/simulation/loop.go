// Package simulation implements the fixed-cadence simulation loop.
//
// The loop goroutine is the only context allowed to mutate world state. Other goroutines
// hand work over with RunOnNextTick; queued tasks run in FIFO order during the next step.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TickScheduler = (*Loop)(nil)

// StepFunc advances the world by one tick.
type StepFunc func(ctx context.Context, tick uint64) error

// Loop runs simulation steps at a fixed interval.
type Loop struct {
	interval time.Duration
	logger   ports.Logger
	step     StepFunc

	mu      sync.Mutex
	pending []ports.Task

	tick atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithStepFunc sets the world step run at the start of every tick.
func WithStepFunc(fn StepFunc) Option {
	return func(l *Loop) {
		l.step = fn
	}
}

// NewLoop creates a loop that steps every interval.
func NewLoop(interval time.Duration, logger ports.Logger, opts ...Option) *Loop {
	if interval <= 0 {
		interval = domain.DefaultTickInterval
	}
	l := &Loop{
		interval: interval,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunOnNextTick queues task for the next step. It is safe to call from any goroutine.
func (l *Loop) RunOnNextTick(task ports.Task) {
	if task == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, task)
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Tick returns the number of completed steps.
func (l *Loop) Tick() uint64 {
	return l.tick.Load()
}

// Step runs one tick: the world step, then every task queued before the step began.
// Tasks queued while the step runs wait for the next one. A failing or panicking task
// does not prevent the remaining tasks from running; all failures are returned joined.
func (l *Loop) Step(ctx context.Context) error {
	tick := l.tick.Add(1)

	l.mu.Lock()
	tasks := l.pending
	l.pending = nil
	l.mu.Unlock()

	var errs []error
	if l.step != nil {
		if err := l.step(ctx, tick); err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, "world step failed"), "tick", tick))
		}
	}

	for _, task := range tasks {
		if err := runTask(ctx, task); err != nil {
			errs = append(errs, zerr.With(err, "tick", tick))
		}
	}

	return errors.Join(errs...)
}

// runTask is the fault boundary of a single task.
func runTask(ctx context.Context, task ports.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(domain.ErrTickTaskPanicked, "task recovered"), "panic", fmt.Sprint(r))
		}
	}()
	return task(ctx)
}

// Run steps the loop until ctx is cancelled. Tick faults are logged and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Step(ctx); err != nil {
				l.logger.Error(err)
			}
		}
	}
}
