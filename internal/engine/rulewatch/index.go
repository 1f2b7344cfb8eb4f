// Package rulewatch hot-reloads rule, weapon and sequence definitions when their files change.
//
// Change notifications arrive on arbitrary goroutines and are collected in a PendingQueue.
// A SettleTimer polls the queue at a fixed cadence and hands each non-empty batch to the
// simulation goroutine, where the Dispatcher classifies it and calls the ruleset loader.
package rulewatch

import (
	"path/filepath"
	"slices"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
)

// PathIndex maps the absolute paths being observed back to their logical file ids.
// It is immutable after construction and safe for concurrent reads.
type PathIndex struct {
	byPath map[string]string
}

// NewPathIndex resolves every declared file of the manifest to its backing path.
// Files without a backing path are left out and can never trigger a reload.
func NewPathIndex(manifest domain.Manifest, fsys ports.FileSystem) *PathIndex {
	idx := &PathIndex{byPath: make(map[string]string)}

	for _, id := range manifest.Files() {
		backing, ok := fsys.Open(id)
		if !ok || backing == "" {
			continue
		}

		abs, err := filepath.Abs(backing)
		if err != nil {
			continue
		}
		idx.byPath[filepath.Clean(abs)] = id
	}

	return idx
}

// Resolve returns the logical file id observed at absPath.
func (idx *PathIndex) Resolve(absPath string) (string, bool) {
	id, ok := idx.byPath[filepath.Clean(absPath)]
	return id, ok
}

// Len returns the number of watched files.
func (idx *PathIndex) Len() int {
	return len(idx.byPath)
}

// Paths returns the sorted absolute paths being watched.
func (idx *PathIndex) Paths() []string {
	paths := make([]string, 0, len(idx.byPath))
	for p := range idx.byPath {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// FileNames returns the sorted distinct base names of the watched paths.
// The watched root may hold files with the same name in other directories,
// so these only narrow the notifications; Resolve has the final say.
func (idx *PathIndex) FileNames() []string {
	seen := make(map[string]struct{}, len(idx.byPath))
	names := make([]string, 0, len(idx.byPath))
	for p := range idx.byPath {
		name := filepath.Base(p)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Files returns the watched files sorted by absolute path.
func (idx *PathIndex) Files() []domain.WatchedFile {
	files := make([]domain.WatchedFile, 0, len(idx.byPath))
	for _, p := range idx.Paths() {
		files = append(files, domain.WatchedFile{LogicalID: idx.byPath[p], AbsolutePath: p})
	}
	return files
}
