// Package ports defines the core interfaces for the application.
package ports

// FileSystem resolves logical definition file ids of a mod.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Open returns the on-disk path backing the logical file.
	// It reports false for files that have no real backing path, such as files inside a package archive.
	Open(logicalID string) (string, bool)

	// Exists reports whether the logical file can currently be read.
	Exists(logicalID string) bool

	// ReadFile returns the content of the logical file.
	ReadFile(logicalID string) ([]byte, error)
}
