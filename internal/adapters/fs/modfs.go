// Package fs resolves logical definition file ids against a mod directory and its mounted packages.
package fs

import (
	"archive/zip"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*ModFS)(nil)

// layer is a read-only file tree mounted under the mod.
type layer struct {
	name   string
	fsys   iofs.FS
	closer io.Closer
}

// ModFS is the mod directory plus the packages mounted over it.
// Files on disk take precedence over packages; packages are searched in mount order.
// Only files on disk have a backing path, so files that live in a package are virtual.
type ModFS struct {
	root string

	mu     sync.RWMutex
	layers []layer
}

// New creates a ModFS rooted at root.
func New(root string) *ModFS {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &ModFS{root: filepath.Clean(root)}
}

// Root returns the absolute mod directory.
func (m *ModFS) Root() string {
	return m.root
}

// MountFS mounts fsys as a package named name.
func (m *ModFS) MountFS(name string, fsys iofs.FS) {
	m.mount(layer{name: name, fsys: fsys})
}

// MountPackage opens the zip archive at pkg, relative to the mod root, and mounts it.
func (m *ModFS) MountPackage(pkg string) error {
	p := pkg
	if !filepath.IsAbs(p) {
		p = filepath.Join(m.root, filepath.FromSlash(pkg))
	}

	zr, err := zip.OpenReader(p)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPackageOpenFailed.Error()), "package", pkg)
	}
	m.mount(layer{name: pkg, fsys: zr, closer: zr})

	return nil
}

func (m *ModFS) mount(l layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, l)
}

// Packages returns the names of the mounted packages in mount order.
func (m *ModFS) Packages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.layers))
	for _, l := range m.layers {
		names = append(names, l.name)
	}
	return names
}

// Close releases the mounted package archives.
func (m *ModFS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, l := range m.layers {
		if l.closer != nil {
			errs = append(errs, l.closer.Close())
		}
	}
	m.layers = nil

	return errors.Join(errs...)
}

// diskPath returns the on-disk path of id, if it names a regular file.
func (m *ModFS) diskPath(id string) (string, bool) {
	p := filepath.FromSlash(id)
	if !filepath.IsAbs(p) {
		p = filepath.Join(m.root, p)
	}

	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return filepath.Clean(p), true
}

// layerPath converts id into an io/fs path.
func layerPath(id string) (string, bool) {
	name := path.Clean(filepath.ToSlash(id))
	return name, iofs.ValidPath(name)
}

// Open returns the absolute path backing id on disk.
// It reports false for files that only exist inside a package.
func (m *ModFS) Open(id string) (string, bool) {
	return m.diskPath(id)
}

// Exists reports whether id can be read from disk or from a package.
func (m *ModFS) Exists(id string) bool {
	if _, ok := m.diskPath(id); ok {
		return true
	}

	name, ok := layerPath(id)
	if !ok {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if info, err := iofs.Stat(l.fsys, name); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// ReadFile returns the contents of id.
func (m *ModFS) ReadFile(id string) ([]byte, error) {
	if p, ok := m.diskPath(id); ok {
		data, err := os.ReadFile(p) //nolint:gosec // path is a declared definition file
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDefinitionReadFailed.Error()), "file", id)
		}
		return data, nil
	}

	if name, ok := layerPath(id); ok {
		m.mu.RLock()
		defer m.mu.RUnlock()

		for _, l := range m.layers {
			data, err := iofs.ReadFile(l.fsys, name)
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, iofs.ErrNotExist) {
				return nil, zerr.With(zerr.With(
					zerr.Wrap(err, domain.ErrDefinitionReadFailed.Error()), "file", id), "package", l.name)
			}
		}
	}

	return nil, zerr.With(zerr.Wrap(iofs.ErrNotExist, domain.ErrDefinitionNotFound.Error()), "file", id)
}
