package ruleset

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/zerr"
)

// templatePrefix marks abstract actors that only exist to be inherited from.
const templatePrefix = "^"

// removalPrefix on a trait key removes the trait inherited from the parent.
const removalPrefix = "-"

type rawActor struct {
	Inherits string                    `yaml:"inherits"`
	Traits   map[string]map[string]any `yaml:"traits"`

	source string
}

// parseRules parses a rules file:
//
//	^infantry:
//	  traits:
//	    health: {hp: 50}
//	e1:
//	  inherits: ^infantry
//	  traits:
//	    armament: {weapon: m1carbine}
func parseRules(file string, data []byte) (map[string]rawActor, error) {
	actors := make(map[string]rawActor)
	if err := decode(file, data, &actors); err != nil {
		return nil, err
	}
	for name, a := range actors {
		a.source = file
		actors[name] = a
	}
	return actors, nil
}

// resolveActors merges the raw definitions of files in order and resolves inheritance.
// An actor declared in several files is merged trait by trait, later files winning.
// Templates are resolved but not returned.
func resolveActors(order []string, raw map[string]map[string]rawActor) (map[string]*domain.ActorInfo, error) {
	merged := make(map[string]rawActor)
	for _, file := range order {
		for name, a := range raw[file] {
			if prev, ok := merged[name]; ok {
				a = overlay(prev, a)
			}
			merged[name] = a
		}
	}

	r := &resolver{merged: merged, resolved: make(map[string]*domain.ActorInfo, len(merged))}
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		if _, err := r.resolve(name, nil); err != nil {
			return nil, err
		}
	}

	actors := make(map[string]*domain.ActorInfo, len(r.resolved))
	for name, info := range r.resolved {
		if !strings.HasPrefix(name, templatePrefix) {
			actors[name] = info
		}
	}
	return actors, nil
}

func overlay(base, top rawActor) rawActor {
	out := rawActor{Inherits: base.Inherits, source: top.source}
	if top.Inherits != "" {
		out.Inherits = top.Inherits
	}
	out.Traits = mergeTraits(base.Traits, top.Traits)
	return out
}

// mergeTraits applies top over base field by field. Neither input is modified.
func mergeTraits(base, top map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(base)+len(top))
	for trait, fields := range base {
		out[trait] = maps.Clone(fields)
	}
	for trait, fields := range top {
		if removed, ok := strings.CutPrefix(trait, removalPrefix); ok {
			delete(out, removed)
			continue
		}
		if out[trait] == nil {
			out[trait] = make(map[string]any, len(fields))
		}
		maps.Copy(out[trait], fields)
	}
	return out
}

type resolver struct {
	merged   map[string]rawActor
	resolved map[string]*domain.ActorInfo
}

func (r *resolver) resolve(name string, chain []string) (*domain.ActorInfo, error) {
	if info, ok := r.resolved[name]; ok {
		return info, nil
	}
	if slices.Contains(chain, name) {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrInheritanceCycle, "cannot resolve actor"),
			"chain", strings.Join(append(chain, name), " -> "),
		)
	}

	a := r.merged[name]
	traits := a.Traits
	if a.Inherits != "" {
		if _, ok := r.merged[a.Inherits]; !ok {
			return nil, zerr.With(zerr.With(
				zerr.Wrap(domain.ErrUnknownParent, "cannot resolve actor"),
				"actor", name), "parent", a.Inherits)
		}
		parent, err := r.resolve(a.Inherits, append(chain, name))
		if err != nil {
			return nil, err
		}
		traits = mergeTraits(parent.Traits, a.Traits)
	} else {
		traits = mergeTraits(nil, traits)
	}

	info := &domain.ActorInfo{
		Name:     name,
		Inherits: a.Inherits,
		Traits:   traits,
		Source:   a.source,
	}
	r.resolved[name] = info
	return info, nil
}
