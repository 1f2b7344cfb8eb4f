package app_test

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotswap/internal/adapters/config"
	fsadapter "go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/adapters/logger"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/adapters/watcher"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const (
	modManifest = `
id: ra
packages: [extra.zip]
rules: [rules.yaml]
weapons: [weapons.yaml]
sequences: [sequences.yaml, packaged.yaml]
`
	rulesFile = `
^infantry:
  traits:
    health: {hp: 50}
e1:
  inherits: ^infantry
  traits:
    armament: {weapon: m1carbine}
`
	weaponsFile = `
m1carbine:
  range: 5
  damage: 10
  projectile: bullet
`
	sequencesFile = `
e1:
  stand: {start: 0, facings: 8}
`
	packagedFile = `
harv:
  idle: {start: 0, facings: 32}
`
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newMod(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mod.yaml"), modManifest)
	writeFile(t, filepath.Join(dir, "rules.yaml"), rulesFile)
	writeFile(t, filepath.Join(dir, "weapons.yaml"), weaponsFile)
	writeFile(t, filepath.Join(dir, "sequences.yaml"), sequencesFile)

	f, err := os.Create(filepath.Join(dir, "extra.zip"))
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("packaged.yaml")
	require.NoError(t, err)
	_, err = io.WriteString(w, packagedFile)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return dir
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)

	provider, err := telemetry.NewProvider(log)
	require.NoError(t, err)

	a := app.New(config.NewLoader(log), watcher.New(log), fsadapter.NewHasher(), provider, log)
	t.Cleanup(func() {
		_ = a.Close(context.Background())
	})
	return a
}

func TestApp_Check(t *testing.T) {
	dir := newMod(t)
	a := newApp(t)

	report, err := a.Check(t.Context(), dir)
	require.NoError(t, err)

	assert.Equal(t, "ra", report.Manifest.ID)
	assert.Equal(t, domain.RulesetStats{Actors: 1, Weapons: 1, Units: 2, Sequences: 2}, report.Stats)
	assert.Equal(t, 3, report.Watched)
	assert.Equal(t, []string{"packaged.yaml"}, report.Virtual)
}

func TestApp_Check_NoManifest(t *testing.T) {
	a := newApp(t)

	_, err := a.Check(t.Context(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestApp_Check_MissingPackage(t *testing.T) {
	dir := newMod(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "extra.zip")))
	a := newApp(t)

	_, err := a.Check(t.Context(), dir)
	require.ErrorContains(t, err, domain.ErrPackageOpenFailed.Error())
}

func TestApp_Check_BrokenDefinition(t *testing.T) {
	dir := newMod(t)
	writeFile(t, filepath.Join(dir, "weapons.yaml"), "m1carbine: [unterminated\n")
	a := newApp(t)

	_, err := a.Check(t.Context(), dir)
	require.ErrorContains(t, err, domain.ErrDefinitionParseFailed.Error())
}

func TestApp_Files(t *testing.T) {
	dir := newMod(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "sequences.yaml")))
	a := newApp(t)

	entries, err := a.Files(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, app.FileEntry{
		LogicalID:   "rules.yaml",
		Kind:        domain.ReloadRules,
		Path:        filepath.Join(dir, "rules.yaml"),
		Exists:      true,
		Fingerprint: fsadapter.Format(xxhash.Sum64String(rulesFile)),
	}, entries[0])
	assert.Equal(t, domain.ReloadWeapons, entries[1].Kind)

	missing := entries[2]
	assert.Equal(t, "sequences.yaml", missing.LogicalID)
	assert.False(t, missing.Exists)
	assert.Empty(t, missing.Path)
	assert.Empty(t, missing.Fingerprint)
	assert.False(t, missing.Virtual())

	packaged := entries[3]
	assert.Equal(t, "packaged.yaml", packaged.LogicalID)
	assert.True(t, packaged.Virtual())
	assert.Equal(t, fsadapter.Format(xxhash.Sum64String(packagedFile)), packaged.Fingerprint)
}

func TestApp_Watch_HotReload(t *testing.T) {
	dir := newMod(t)
	a := newApp(t)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	ready := make(chan *app.Session, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, app.WatchOptions{
			Dir:      dir,
			Debounce: 5 * time.Millisecond,
			Tick:     5 * time.Millisecond,
			OnReady:  func(s *app.Session) { ready <- s },
		})
	}()

	var session *app.Session
	select {
	case session = <-ready:
	case err := <-done:
		t.Fatalf("watch ended early: %v", err)
	}

	assert.Equal(t, domain.StateEnabled, session.Watcher.State())
	assert.Equal(t, 10, session.Ruleset.Snapshot().Weapons["m1carbine"].Damage)

	writeFile(t, filepath.Join(dir, "weapons.yaml"), `
m1carbine:
  range: 5
  damage: 25
  projectile: bullet
`)

	require.Eventually(t, func() bool {
		w := session.Ruleset.Snapshot().Weapons["m1carbine"]
		return w != nil && w.Damage == 25
	}, 5*time.Second, 10*time.Millisecond)
	assert.Positive(t, session.Loop.Tick())

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, domain.StateDisposed, session.Watcher.State())
}

func TestApp_Watch_MetricsServerFailure(t *testing.T) {
	dir := newMod(t)
	a := newApp(t)

	err := a.Watch(t.Context(), app.WatchOptions{
		Dir:            dir,
		MetricsAddress: "256.0.0.1:bad",
	})
	require.ErrorContains(t, err, domain.ErrMetricsServerFailed.Error())
}

func TestApp_Watch_NoManifest(t *testing.T) {
	a := newApp(t)

	err := a.Watch(t.Context(), app.WatchOptions{Dir: t.TempDir()})
	require.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestApp_Watch_SubscribeFailure(t *testing.T) {
	dir := newMod(t)

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockWatcher(ctrl)
	notifier.EXPECT().
		Watch(gomock.Any(), dir, []string{"rules.yaml", "sequences.yaml", "weapons.yaml"}, gomock.Any()).
		Return(nil, errors.New("inotify limit reached"))

	log := logger.New()
	log.SetOutput(io.Discard)
	provider, err := telemetry.NewProvider(log)
	require.NoError(t, err)

	a := app.New(config.NewLoader(log), notifier, fsadapter.NewHasher(), provider, log)
	defer a.Close(context.Background())

	err = a.Watch(t.Context(), app.WatchOptions{Dir: dir})
	require.ErrorContains(t, err, domain.ErrWatchSubscribeFailed.Error())
	assert.ErrorContains(t, err, "inotify limit reached")
}

func TestApp_Files_LoaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("somewhere").Return(domain.Manifest{}, domain.ErrManifestEmpty)

	log := logger.New()
	log.SetOutput(io.Discard)
	provider, err := telemetry.NewProvider(log)
	require.NoError(t, err)

	a := app.New(loader, watcher.New(log), fsadapter.NewHasher(), provider, log)
	defer a.Close(context.Background())

	_, err = a.Files(t.Context(), "somewhere")
	require.ErrorIs(t, err, domain.ErrManifestEmpty)
}
