// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hotswap/internal/adapters/config"
	_ "go.trai.ch/hotswap/internal/adapters/fs"
	_ "go.trai.ch/hotswap/internal/adapters/logger"
	_ "go.trai.ch/hotswap/internal/adapters/telemetry"
	_ "go.trai.ch/hotswap/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/hotswap/internal/app"
)
