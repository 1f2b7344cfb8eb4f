package rulewatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// Deps are the collaborators of a Watcher. Tracer and Metrics are optional.
type Deps struct {
	FileSystem ports.FileSystem
	Loader     ports.RulesetLoader
	Scheduler  ports.TickScheduler
	Notifier   ports.Watcher
	Logger     ports.Logger
	Tracer     ports.Tracer
	Metrics    ports.Metrics
}

// Options configures a Watcher.
type Options struct {
	// Interval is the settle timer cadence. Defaults to domain.DefaultDebounceWindow.
	Interval time.Duration
}

// Watcher observes the declared definition files of a mod and hot-reloads them on change.
//
// A Watcher starts disabled. StartWatching and StopWatching may be called repeatedly;
// Close is terminal and idempotent.
type Watcher struct {
	root       string
	index      *PathIndex
	queue      *PendingQueue
	timer      *SettleTimer
	dispatcher *Dispatcher
	notifier   ports.Watcher
	scheduler  ports.TickScheduler
	logger     ports.Logger
	metrics    ports.Metrics

	// mu serializes lifecycle transitions. Notification and timer callbacks never take it.
	mu     sync.Mutex
	state  atomic.Int32
	sub    ports.Subscription
	cancel context.CancelFunc
}

// New creates a disabled watcher for manifest. Files that cannot be resolved
// to a path on disk are silently excluded.
func New(manifest domain.Manifest, deps Deps, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = domain.DefaultDebounceWindow
	}
	if deps.Tracer == nil {
		deps.Tracer = noopTracer{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}

	root := manifest.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	index := NewPathIndex(manifest, deps.FileSystem)
	w := &Watcher{
		root:      root,
		index:     index,
		queue:     NewPendingQueue(),
		notifier:  deps.Notifier,
		scheduler: deps.Scheduler,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		dispatcher: NewDispatcher(
			manifest, index, deps.FileSystem, deps.Loader, deps.Tracer, deps.Metrics, deps.Logger,
		),
	}
	w.timer = NewSettleTimer(opts.Interval, w.poll)
	w.state.Store(int32(domain.StateDisabled))

	return w
}

// State returns the current lifecycle state.
func (w *Watcher) State() domain.WatchState {
	return domain.WatchState(w.state.Load())
}

// IsEnabled reports whether the watcher currently accepts changes.
func (w *Watcher) IsEnabled() bool {
	return w.State() == domain.StateEnabled
}

// Index returns the path index of the watched files.
func (w *Watcher) Index() *PathIndex {
	return w.index
}

// Root returns the directory tree being observed.
func (w *Watcher) Root() string {
	return w.root
}

// StartWatching subscribes to change notifications and starts the settle timer.
// The subscription lives until StopWatching or Close; cancelling ctx does not end it.
// It returns domain.ErrWatcherDisposed after Close.
func (w *Watcher) StartWatching(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.State() {
	case domain.StateDisposed:
		return domain.ErrWatcherDisposed
	case domain.StateEnabled:
		return nil
	}

	w.queue.Open()
	w.state.Store(int32(domain.StateEnabled))

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub, err := w.notifier.Watch(subCtx, w.root, w.index.FileNames(), w.handleChange)
	if err != nil {
		cancel()
		w.state.Store(int32(domain.StateDisabled))
		w.queue.Close()
		w.queue.Clear()
		return zerr.With(zerr.Wrap(err, domain.ErrWatchSubscribeFailed.Error()), "root", w.root)
	}
	w.sub = sub
	w.cancel = cancel
	w.timer.Start()

	w.logger.Info(fmt.Sprintf("watching %d definition files under %s", w.index.Len(), w.root))
	return nil
}

// StopWatching unsubscribes, halts the timer and drops every unprocessed change.
// It returns domain.ErrWatcherDisposed after Close.
func (w *Watcher) StopWatching() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.State() == domain.StateDisposed {
		return domain.ErrWatcherDisposed
	}

	w.state.Store(int32(domain.StateDisabled))
	w.timer.Stop()
	err := w.unsubscribeLocked()
	w.queue.Close()
	w.queue.Clear()

	return err
}

// Close disposes the watcher. Only the first call has an effect; later calls return nil.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.State() == domain.StateDisposed {
		return nil
	}

	w.state.Store(int32(domain.StateDisposed))
	w.timer.Stop()
	err := w.unsubscribeLocked()
	w.queue.Close()
	w.queue.Clear()

	return err
}

func (w *Watcher) unsubscribeLocked() error {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.sub == nil {
		return nil
	}
	sub := w.sub
	w.sub = nil
	if err := sub.Close(); err != nil {
		return zerr.Wrap(err, "failed to close change subscription")
	}
	return nil
}

// handleChange runs on the notification goroutine.
func (w *Watcher) handleChange(event ports.WatchEvent) {
	if !w.IsEnabled() {
		return
	}
	if _, ok := w.index.Resolve(event.Path); !ok {
		return
	}
	// Repeated notifications for a path that is still pending are not counted.
	if w.queue.Enqueue(filepath.Clean(event.Path)) {
		w.metrics.ChangeAccepted(context.Background())
	}
}

// poll runs on the timer goroutine.
func (w *Watcher) poll() {
	if !w.IsEnabled() {
		return
	}

	batch := w.queue.Drain()
	if len(batch.Paths) == 0 {
		return
	}
	w.metrics.BatchDrained(context.Background(), len(batch.Paths))

	w.scheduler.RunOnNextTick(func(ctx context.Context) error {
		// Scheduling and execution are decoupled; the watcher may have been stopped since.
		if !w.IsEnabled() || w.queue.Epoch() != batch.Epoch {
			w.metrics.BatchDropped(ctx)
			return nil
		}
		return w.dispatcher.Dispatch(ctx, batch.Paths)
	})
}
