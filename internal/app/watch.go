package app

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/hotswap/internal/adapters/ruleset"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/engine/rulewatch"
	"go.trai.ch/hotswap/internal/engine/simulation"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configures a watch session.
type WatchOptions struct {
	// Dir is where manifest discovery starts.
	Dir string
	// Debounce is the settle timer cadence.
	Debounce time.Duration
	// Tick is the simulation step interval.
	Tick time.Duration
	// MetricsAddress serves /metrics when set.
	MetricsAddress string
	// Step runs at the start of every simulation tick.
	Step simulation.StepFunc
	// OnReady is called once the watcher is enabled.
	OnReady func(*Session)
}

// Session is a running watch.
type Session struct {
	Manifest domain.Manifest
	Ruleset  *ruleset.Loader
	Watcher  *rulewatch.Watcher
	Loop     *simulation.Loop
}

// Watch loads the mod, then hot-reloads its definition files on the simulation loop
// until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts WatchOptions) (err error) {
	m, err := a.load(ctx, opts.Dir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.fsys.Close())
	}()

	var loopOpts []simulation.Option
	if opts.Step != nil {
		loopOpts = append(loopOpts, simulation.WithStepFunc(opts.Step))
	}
	loop := simulation.NewLoop(opts.Tick, a.logger, loopOpts...)

	w := rulewatch.New(m.manifest, rulewatch.Deps{
		FileSystem: m.fsys,
		Loader:     m.rules,
		Scheduler:  loop,
		Notifier:   a.notifier,
		Logger:     a.logger,
		Tracer:     a.telemetry.Tracer(),
		Metrics:    a.telemetry.Metrics(),
	}, rulewatch.Options{Interval: opts.Debounce})
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	g, gctx := errgroup.WithContext(ctx)

	if err := w.StartWatching(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		if err := loop.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if opts.MetricsAddress != "" {
		g.Go(func() error {
			return telemetry.Serve(gctx, opts.MetricsAddress, a.telemetry.Handler())
		})
		a.logger.Info("serving metrics on " + opts.MetricsAddress + "/metrics")
	}

	g.Go(func() error {
		<-gctx.Done()
		return w.StopWatching()
	})

	if opts.OnReady != nil {
		opts.OnReady(&Session{
			Manifest: m.manifest,
			Ruleset:  m.rules,
			Watcher:  w,
			Loop:     loop,
		})
	}

	return g.Wait()
}
