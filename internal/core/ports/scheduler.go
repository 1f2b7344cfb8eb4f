package ports

import "context"

// Task is a unit of work executed on the simulation goroutine.
type Task func(ctx context.Context) error

// TickScheduler hands work over to the simulation goroutine.
//
//go:generate mockgen -source=scheduler.go -destination=mocks/mock_scheduler.go -package=mocks
type TickScheduler interface {
	// RunOnNextTick queues task to run during the next simulation step.
	// It is safe to call from any goroutine.
	RunOnNextTick(task Task)
}
