// Package config loads the mod manifest and the runtime settings of hotswap.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestFiles are the manifest names looked up in every directory, in order.
var ManifestFiles = []string{domain.ManifestFileName, domain.ManifestTOMLFileName}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using mod.yaml or mod.toml.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Modfile represents the structure of the mod manifest.
type Modfile struct {
	ID        string   `yaml:"id" toml:"id"`
	Packages  []string `yaml:"packages" toml:"packages"`
	Rules     []string `yaml:"rules" toml:"rules"`
	Weapons   []string `yaml:"weapons" toml:"weapons"`
	Sequences []string `yaml:"sequences" toml:"sequences"`
}

// DiscoverRoot walks up from cwd and returns the first directory holding a manifest.
func (l *FileConfigLoader) DiscoverRoot(cwd string) (string, error) {
	dir, _, err := discover(cwd)
	return dir, err
}

// Load finds the manifest above cwd and returns it with Root set to its directory.
func (l *FileConfigLoader) Load(cwd string) (domain.Manifest, error) {
	dir, file, err := discover(cwd)
	if err != nil {
		return domain.Manifest{}, err
	}

	manifestPath := filepath.Join(dir, file)
	data, err := os.ReadFile(manifestPath) //nolint:gosec // path is discovered from cwd
	if err != nil {
		return domain.Manifest{}, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "file", manifestPath)
	}

	var mf Modfile
	if strings.HasSuffix(file, ".toml") {
		_, err = toml.Decode(string(data), &mf)
	} else {
		err = yaml.Unmarshal(data, &mf)
	}
	if err != nil {
		return domain.Manifest{}, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "file", manifestPath)
	}

	return l.build(dir, manifestPath, mf)
}

func (l *FileConfigLoader) build(dir, manifestPath string, mf Modfile) (domain.Manifest, error) {
	m := domain.Manifest{
		ID:   mf.ID,
		Root: dir,
	}
	if m.ID == "" {
		m.ID = filepath.Base(dir)
	}

	seen := make(map[string]bool)
	var err error
	if m.Packages, err = l.logicalIDs(manifestPath, "packages", mf.Packages, make(map[string]bool)); err != nil {
		return domain.Manifest{}, err
	}
	if m.Rules, err = l.logicalIDs(manifestPath, "rules", mf.Rules, seen); err != nil {
		return domain.Manifest{}, err
	}
	if m.Weapons, err = l.logicalIDs(manifestPath, "weapons", mf.Weapons, seen); err != nil {
		return domain.Manifest{}, err
	}
	if m.Sequences, err = l.logicalIDs(manifestPath, "sequences", mf.Sequences, seen); err != nil {
		return domain.Manifest{}, err
	}

	if len(m.Files()) == 0 {
		return domain.Manifest{}, zerr.With(zerr.Wrap(domain.ErrManifestEmpty, "nothing to watch"), "file", manifestPath)
	}
	return m, nil
}

// logicalIDs normalizes declared entries to slash-separated ids relative to the mod root.
// A file declared more than once keeps its first position.
func (l *FileConfigLoader) logicalIDs(manifestPath, section string, entries []string, seen map[string]bool) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id := path.Clean(filepath.ToSlash(strings.TrimSpace(entry)))
		if entry == "" || id == "." || path.IsAbs(id) || id == ".." || strings.HasPrefix(id, "../") {
			err := zerr.Wrap(domain.ErrManifestParseFailed, "entry must be a path inside the mod")
			return nil, zerr.With(zerr.With(err, "file", manifestPath), "entry", entry)
		}
		if seen[id] {
			l.logger.Warn("ignoring duplicate " + section + " entry " + id + " in " + manifestPath)
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// discover returns the directory and file name of the closest manifest at or above cwd.
func discover(cwd string) (string, string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		for _, name := range ManifestFiles {
			info, err := os.Stat(filepath.Join(dir, name))
			if err == nil && info.Mode().IsRegular() {
				return dir, name, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", "", zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "dir", dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no manifest at or above working directory"), "cwd", cwd)
		}
		dir = parent
	}
}
