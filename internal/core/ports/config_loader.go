package ports

import "go.trai.ch/hotswap/internal/core/domain"

// ConfigLoader defines the interface for loading the mod manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the mod manifest by walking up from cwd and returns it.
	Load(cwd string) (domain.Manifest, error)

	// DiscoverRoot walks up from cwd and returns the directory containing the manifest.
	DiscoverRoot(cwd string) (string, error)
}
