// Package ruleset parses rule, weapon and sequence definition files and hot-swaps them
// into the in-memory ruleset.
//
// Reload methods mutate the ruleset and must run on the simulation goroutine.
// Snapshot may be called from any goroutine.
package ruleset

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	fsadapter "go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RulesetLoader = (*Loader)(nil)

// Loader owns the ruleset of one mod.
type Loader struct {
	fsys   ports.FileSystem
	hasher *fsadapter.Hasher
	logger ports.Logger
	tracer ports.Tracer

	// mu guards the parsed definitions, which are kept per file in declaration
	// order. A reload reparses only the changed files and rebuilds from the rest,
	// so later files keep winning for duplicate names exactly as in a full load.
	mu            sync.Mutex
	ruleFiles     []string
	rawRules      map[string]map[string]rawActor
	weaponFiles   []string
	rawWeapons    map[string]map[string]*domain.WeaponInfo
	sequenceFiles []string
	rawSequences  map[string]map[string]map[string]*domain.SequenceInfo

	current atomic.Pointer[domain.Ruleset]
}

// NewLoader creates a loader with an empty ruleset.
func NewLoader(fsys ports.FileSystem, hasher *fsadapter.Hasher, logger ports.Logger, tracer ports.Tracer) *Loader {
	l := &Loader{
		fsys:         fsys,
		hasher:       hasher,
		logger:       logger,
		tracer:       tracer,
		rawRules:     make(map[string]map[string]rawActor),
		rawWeapons:   make(map[string]map[string]*domain.WeaponInfo),
		rawSequences: make(map[string]map[string]map[string]*domain.SequenceInfo),
	}
	empty := domain.NewRuleset()
	l.current.Store(&empty)
	return l
}

// Snapshot returns the current ruleset. Callers must not modify it.
func (l *Loader) Snapshot() domain.Ruleset {
	return *l.current.Load()
}

// Stats counts the definitions of the current ruleset.
func (l *Loader) Stats() domain.RulesetStats {
	return l.Snapshot().Stats()
}

// Load parses every file declared by manifest and replaces the whole ruleset.
func (l *Loader) Load(ctx context.Context, manifest domain.Manifest) (err error) {
	_, span := l.tracer.Start(ctx, "ruleset.load",
		ports.WithAttribute("mod.id", manifest.ID),
		ports.WithAttribute("files", len(manifest.Files())),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	for _, id := range manifest.Files() {
		if !l.fsys.Exists(id) {
			return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "missing declared file"), "file", id)
		}
	}

	next := domain.NewRuleset()

	parsedRules, err := parseFiles(l, manifest.Rules, &next, parseRules)
	if err != nil {
		return err
	}
	actors, err := resolveActors(manifest.Rules, parsedRules)
	if err != nil {
		return err
	}
	next.Actors = actors

	parsedWeapons, err := parseFiles(l, manifest.Weapons, &next, parseWeapons)
	if err != nil {
		return err
	}
	next.Weapons = layer(manifest.Weapons, parsedWeapons)

	parsedSequences, err := parseFiles(l, manifest.Sequences, &next, parseSequences)
	if err != nil {
		return err
	}
	next.Sequences = layer(manifest.Sequences, parsedSequences)

	l.mu.Lock()
	l.ruleFiles = slices.Clone(manifest.Rules)
	l.rawRules = parsedRules
	l.weaponFiles = slices.Clone(manifest.Weapons)
	l.rawWeapons = parsedWeapons
	l.sequenceFiles = slices.Clone(manifest.Sequences)
	l.rawSequences = parsedSequences
	l.mu.Unlock()
	l.current.Store(&next)

	stats := next.Stats()
	l.logger.Info(fmt.Sprintf("loaded %d actors, %d weapons, %d sequences across %d units",
		stats.Actors, stats.Weapons, stats.Sequences, stats.Units))

	return nil
}

// parseFiles reads and parses files in order, recording their fingerprints into rs.
func parseFiles[T any](
	l *Loader,
	files []string,
	rs *domain.Ruleset,
	parse func(file string, data []byte) (T, error),
) (map[string]T, error) {
	parsed := make(map[string]T, len(files))
	for _, file := range files {
		data, err := l.fsys.ReadFile(file)
		if err != nil {
			return nil, err
		}
		v, err := parse(file, data)
		if err != nil {
			return nil, err
		}
		parsed[file] = v
		rs.Fingerprints[file] = l.hasher.Sum(data)
	}
	return parsed, nil
}

// layer merges per-file definitions in order. Later files win for duplicate names.
func layer[V any](order []string, parsed map[string]map[string]V) map[string]V {
	out := make(map[string]V)
	for _, file := range order {
		maps.Copy(out, parsed[file])
	}
	return out
}

// extend appends the files not yet in order.
func extend(order, files []string) []string {
	for _, file := range files {
		if !slices.Contains(order, file) {
			order = append(slices.Clone(order), file)
		}
	}
	return order
}

// changed reads files and keeps those whose fingerprint differs from the current ruleset.
func (l *Loader) changed(files []string) (map[string][]byte, map[string]uint64, error) {
	current := l.current.Load()

	contents := make(map[string][]byte, len(files))
	sums := make(map[string]uint64, len(files))
	for _, file := range files {
		data, err := l.fsys.ReadFile(file)
		if err != nil {
			return nil, nil, err
		}
		sum := l.hasher.Sum(data)
		if prev, ok := current.Fingerprints[file]; ok && prev == sum {
			continue
		}
		contents[file] = data
		sums[file] = sum
	}
	return contents, sums, nil
}

// next returns a shallow copy of the current ruleset with fresh fingerprints.
func (l *Loader) next(sums map[string]uint64) domain.Ruleset {
	rs := *l.current.Load()
	rs.Fingerprints = maps.Clone(rs.Fingerprints)
	maps.Copy(rs.Fingerprints, sums)
	return rs
}

// ReloadRules reparses files and re-resolves every actor.
func (l *Loader) ReloadRules(ctx context.Context, files []string) (err error) {
	_, span := l.tracer.Start(ctx, "ruleset.reload_rules", ports.WithAttribute("files", files))
	defer endSpan(span, &err)

	contents, sums, err := l.changed(files)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRulesReloadFailed.Error())
	}
	if len(contents) == 0 {
		l.logger.Info("rules unchanged, skipping reload")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	raw := maps.Clone(l.rawRules)
	for file, data := range contents {
		actors, err := parseRules(file, data)
		if err != nil {
			return zerr.Wrap(err, domain.ErrRulesReloadFailed.Error())
		}
		raw[file] = actors
	}

	order := extend(l.ruleFiles, files)
	actors, err := resolveActors(order, raw)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRulesReloadFailed.Error())
	}

	rs := l.next(sums)
	rs.Actors = actors
	l.ruleFiles = order
	l.rawRules = raw
	l.current.Store(&rs)

	span.SetAttribute("actors", len(actors))
	l.logger.Info(fmt.Sprintf("reloaded %d actors", len(actors)))

	return nil
}

// ReloadWeapons reparses files and rebuilds the weapons from every declared file.
func (l *Loader) ReloadWeapons(ctx context.Context, files []string) (err error) {
	_, span := l.tracer.Start(ctx, "ruleset.reload_weapons", ports.WithAttribute("files", files))
	defer endSpan(span, &err)

	contents, sums, err := l.changed(files)
	if err != nil {
		return zerr.Wrap(err, domain.ErrWeaponsReloadFailed.Error())
	}
	if len(contents) == 0 {
		l.logger.Info("weapons unchanged, skipping reload")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	raw := maps.Clone(l.rawWeapons)
	for file, data := range contents {
		weapons, err := parseWeapons(file, data)
		if err != nil {
			return zerr.Wrap(err, domain.ErrWeaponsReloadFailed.Error())
		}
		raw[file] = weapons
	}

	order := extend(l.weaponFiles, files)
	rs := l.next(sums)
	rs.Weapons = layer(order, raw)
	l.weaponFiles = order
	l.rawWeapons = raw
	l.current.Store(&rs)

	l.logger.Info(fmt.Sprintf("reloaded weapons from %d files", len(contents)))
	return nil
}

// ReloadSequences reparses file and rebuilds the sequences from every declared file.
func (l *Loader) ReloadSequences(ctx context.Context, file string) (err error) {
	_, span := l.tracer.Start(ctx, "ruleset.reload_sequences", ports.WithAttribute("file", file))
	defer endSpan(span, &err)

	contents, sums, err := l.changed([]string{file})
	if err != nil {
		return zerr.Wrap(err, domain.ErrSequencesReloadFailed.Error())
	}
	data, ok := contents[file]
	if !ok {
		l.logger.Info("sequences unchanged, skipping reload")
		return nil
	}

	units, err := parseSequences(file, data)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSequencesReloadFailed.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	raw := maps.Clone(l.rawSequences)
	raw[file] = units

	order := extend(l.sequenceFiles, []string{file})
	rs := l.next(sums)
	rs.Sequences = layer(order, raw)
	l.sequenceFiles = order
	l.rawSequences = raw
	l.current.Store(&rs)

	l.logger.Info(fmt.Sprintf("reloaded sequences of %d units", len(units)))
	return nil
}

func endSpan(span ports.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
	}
	span.End()
}
