package domain

import "go.trai.ch/zerr"

var (
	// ErrWatcherDisposed is returned when a disposed watcher is started or stopped.
	ErrWatcherDisposed = zerr.New("ruleset watcher has been disposed")

	// ErrWatchSubscribeFailed is returned when the OS change notification subscription cannot be created.
	ErrWatchSubscribeFailed = zerr.New("failed to subscribe to file change notifications")

	// ErrManifestNotFound is returned when no mod manifest can be found.
	ErrManifestNotFound = zerr.New("could not find mod.yaml or mod.toml")

	// ErrManifestReadFailed is returned when the mod manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read mod manifest")

	// ErrManifestParseFailed is returned when the mod manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse mod manifest")

	// ErrManifestEmpty is returned when a manifest declares no definition files at all.
	ErrManifestEmpty = zerr.New("mod manifest declares no rules, weapons or sequences")

	// ErrPackageOpenFailed is returned when a mod package archive cannot be mounted.
	ErrPackageOpenFailed = zerr.New("failed to open mod package")

	// ErrDefinitionNotFound is returned when a declared definition file does not exist.
	ErrDefinitionNotFound = zerr.New("definition file not found")

	// ErrDefinitionReadFailed is returned when a definition file cannot be read.
	ErrDefinitionReadFailed = zerr.New("failed to read definition file")

	// ErrDefinitionParseFailed is returned when a definition file cannot be parsed.
	ErrDefinitionParseFailed = zerr.New("failed to parse definition file")

	// ErrInheritanceCycle is returned when actor inheritance forms a cycle.
	ErrInheritanceCycle = zerr.New("actor inheritance cycle detected")

	// ErrUnknownParent is returned when an actor inherits from an undefined actor.
	ErrUnknownParent = zerr.New("actor inherits from unknown parent")

	// ErrRulesReloadFailed is returned when hot-swapping actor rules fails.
	ErrRulesReloadFailed = zerr.New("failed to reload rules")

	// ErrWeaponsReloadFailed is returned when hot-swapping weapon definitions fails.
	ErrWeaponsReloadFailed = zerr.New("failed to reload weapons")

	// ErrSequencesReloadFailed is returned when hot-swapping a sequence set fails.
	ErrSequencesReloadFailed = zerr.New("failed to reload sequences")

	// ErrTickTaskPanicked is returned when a task scheduled on the simulation tick panics.
	ErrTickTaskPanicked = zerr.New("simulation tick task panicked")

	// ErrInvalidSetting is returned when a runtime setting has an invalid value.
	ErrInvalidSetting = zerr.New("invalid setting")

	// ErrMetricsServerFailed is returned when the metrics endpoint cannot be served.
	ErrMetricsServerFailed = zerr.New("metrics server failed")
)
