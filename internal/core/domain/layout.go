package domain

import "time"

const (
	// ManifestFileName is the name of the YAML mod manifest.
	ManifestFileName = "mod.yaml"

	// ManifestTOMLFileName is the name of the TOML mod manifest.
	ManifestTOMLFileName = "mod.toml"

	// SettingsFileName is the base name of the optional runtime settings file.
	SettingsFileName = "hotswap"

	// DefaultDebounceWindow is the cadence of the settle timer.
	DefaultDebounceWindow = 10 * time.Millisecond

	// DefaultTickInterval is the fixed cadence of the simulation loop.
	DefaultTickInterval = 40 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
