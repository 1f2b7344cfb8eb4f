package rulewatch

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// Dispatcher turns a drained batch of paths into a single loader call.
// It mutates simulation state through the loader and must only run on the simulation goroutine.
type Dispatcher struct {
	manifest domain.Manifest
	index    *PathIndex
	fsys     ports.FileSystem
	loader   ports.RulesetLoader
	tracer   ports.Tracer
	metrics  ports.Metrics
	logger   ports.Logger
}

// NewDispatcher creates a dispatcher for the declared files of manifest.
func NewDispatcher(
	manifest domain.Manifest,
	index *PathIndex,
	fsys ports.FileSystem,
	loader ports.RulesetLoader,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger ports.Logger,
) *Dispatcher {
	return &Dispatcher{
		manifest: manifest,
		index:    index,
		fsys:     fsys,
		loader:   loader,
		tracer:   tracer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Batch maps absolute paths back to logical ids. Paths outside the index are dropped.
func (d *Dispatcher) Batch(paths []string) domain.ReloadBatch {
	batch := domain.ReloadBatch{LogicalIDs: make([]string, 0, len(paths))}
	for _, p := range paths {
		if id, ok := d.index.Resolve(p); ok {
			batch.LogicalIDs = append(batch.LogicalIDs, id)
		}
	}
	return batch
}

// Classify decides what a batch of changed paths reloads.
// Rules win over weapons and weapons win over sequences; only the first sequence file is reloaded.
func (d *Dispatcher) Classify(paths []string) domain.ReloadPlan {
	changed := d.Batch(paths).LogicalIDs
	if len(changed) == 0 {
		return domain.ReloadPlan{Kind: domain.ReloadNone}
	}

	if rules := d.match(d.manifest.Rules, changed); len(rules) > 0 {
		return domain.ReloadPlan{Kind: domain.ReloadRules, Files: rules}
	}
	if weapons := d.match(d.manifest.Weapons, changed); len(weapons) > 0 {
		return domain.ReloadPlan{Kind: domain.ReloadWeapons, Files: weapons}
	}
	if sequences := d.match(d.manifest.Sequences, changed); len(sequences) > 0 {
		return domain.ReloadPlan{Kind: domain.ReloadSequences, Files: sequences[:1]}
	}

	return domain.ReloadPlan{Kind: domain.ReloadNone}
}

// match returns the declared files, in declaration order, that were changed and still exist.
func (d *Dispatcher) match(declared, changed []string) []string {
	var found []string
	for _, file := range declared {
		if !containsFold(changed, file) {
			continue
		}
		if !d.fsys.Exists(file) {
			continue
		}
		found = append(found, file)
	}
	return found
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// Dispatch classifies paths and invokes the matching reload.
// Loader errors are returned to the caller without retry.
func (d *Dispatcher) Dispatch(ctx context.Context, paths []string) error {
	plan := d.Classify(paths)
	if plan.Kind == domain.ReloadNone {
		return nil
	}

	ctx, span := d.tracer.Start(ctx, "rulewatch.dispatch",
		ports.WithAttribute("reload.kind", plan.Kind.String()),
		ports.WithAttribute("reload.files", plan.Files),
	)
	defer span.End()

	d.logger.Info(fmt.Sprintf("reloading %s: %s", plan.Kind, strings.Join(plan.Files, ", ")))

	var err error
	switch plan.Kind {
	case domain.ReloadRules:
		err = d.loader.ReloadRules(ctx, plan.Files)
	case domain.ReloadWeapons:
		err = d.loader.ReloadWeapons(ctx, plan.Files)
	case domain.ReloadSequences:
		err = d.loader.ReloadSequences(ctx, plan.Files[0])
	}

	d.metrics.Reloaded(ctx, plan.Kind, err)
	if err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, "hot reload failed"), "kind", plan.Kind.String())
	}
	return nil
}
