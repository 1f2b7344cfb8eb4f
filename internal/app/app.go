// Package app implements the application layer for hotswap.
package app

import (
	"context"
	"errors"
	"fmt"

	fsadapter "go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/adapters/ruleset"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	notifier     ports.Watcher
	hasher       *fsadapter.Hasher
	telemetry    *telemetry.Provider
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	notifier ports.Watcher,
	hasher *fsadapter.Hasher,
	provider *telemetry.Provider,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		notifier:     notifier,
		hasher:       hasher,
		telemetry:    provider,
		logger:       logger,
	}
}

// Close flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	return a.telemetry.Shutdown(ctx)
}

// mod is a loaded mod: its manifest, mounted file system and ruleset.
type mod struct {
	manifest domain.Manifest
	fsys     *fsadapter.ModFS
	rules    *ruleset.Loader
}

// openMod loads the manifest found above dir and mounts its packages.
// The caller closes the returned file system.
func (a *App) openMod(dir string) (*mod, error) {
	manifest, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load mod manifest")
	}

	fsys := fsadapter.New(manifest.Root)
	for _, pkg := range manifest.Packages {
		if err := fsys.MountPackage(pkg); err != nil {
			return nil, errors.Join(err, fsys.Close())
		}
	}

	return &mod{
		manifest: manifest,
		fsys:     fsys,
		rules:    ruleset.NewLoader(fsys, a.hasher, a.logger, a.telemetry.Tracer()),
	}, nil
}

// load opens the mod and parses every declared file once.
func (a *App) load(ctx context.Context, dir string) (*mod, error) {
	m, err := a.openMod(dir)
	if err != nil {
		return nil, err
	}
	if err := m.rules.Load(ctx, m.manifest); err != nil {
		return nil, errors.Join(err, m.fsys.Close())
	}

	stats := m.rules.Stats()
	a.logger.Info(fmt.Sprintf("loaded mod %s: %d actors, %d weapons, %d sequences",
		m.manifest.ID, stats.Actors, stats.Weapons, stats.Sequences))
	return m, nil
}
