package app

import (
	"context"
	"errors"

	fsadapter "go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/engine/rulewatch"
	"go.trai.ch/zerr"
)

// CheckReport summarizes a mod that loaded successfully.
type CheckReport struct {
	Manifest domain.Manifest
	Stats    domain.RulesetStats
	Watched  int
	Virtual  []string
}

// Check loads every declared definition file of the mod above dir once.
func (a *App) Check(ctx context.Context, dir string) (report *CheckReport, err error) {
	m, err := a.load(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, m.fsys.Close())
	}()

	index := rulewatch.NewPathIndex(m.manifest, m.fsys)
	report = &CheckReport{
		Manifest: m.manifest,
		Stats:    m.rules.Stats(),
		Watched:  index.Len(),
	}
	for _, id := range m.manifest.Files() {
		if _, ok := m.fsys.Open(id); !ok {
			report.Virtual = append(report.Virtual, id)
		}
	}
	return report, nil
}

// FileEntry describes one declared definition file.
type FileEntry struct {
	LogicalID   string
	Kind        domain.ReloadKind
	Path        string
	Exists      bool
	Fingerprint string
}

// Virtual reports whether the file exists but has no backing path to watch.
func (e FileEntry) Virtual() bool {
	return e.Exists && e.Path == ""
}

// Files lists the declared definition files of the mod above dir with their fingerprints,
// rules first, then weapons, then sequences.
// Missing files are listed without a fingerprint.
func (a *App) Files(_ context.Context, dir string) (entries []FileEntry, err error) {
	m, err := a.openMod(dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, m.fsys.Close())
	}()

	index := rulewatch.NewPathIndex(m.manifest, m.fsys)
	watched := make(map[string]string, index.Len())
	for _, f := range index.Files() {
		watched[f.LogicalID] = f.AbsolutePath
	}

	add := func(kind domain.ReloadKind, ids []string) error {
		for _, id := range ids {
			entry := FileEntry{LogicalID: id, Kind: kind, Path: watched[id], Exists: m.fsys.Exists(id)}
			if entry.Exists {
				sum, err := a.hasher.FileHash(m.fsys, id)
				if err != nil {
					return zerr.With(zerr.Wrap(err, domain.ErrDefinitionReadFailed.Error()), "file", id)
				}
				entry.Fingerprint = fsadapter.Format(sum)
			}
			entries = append(entries, entry)
		}
		return nil
	}

	if err := add(domain.ReloadRules, m.manifest.Rules); err != nil {
		return nil, err
	}
	if err := add(domain.ReloadWeapons, m.manifest.Weapons); err != nil {
		return nil, err
	}
	if err := add(domain.ReloadSequences, m.manifest.Sequences); err != nil {
		return nil, err
	}
	return entries, nil
}
