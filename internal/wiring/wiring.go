// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assetpipe/internal/adapters/config"
	_ "go.trai.ch/assetpipe/internal/adapters/devserver"
	_ "go.trai.ch/assetpipe/internal/adapters/fs"
	_ "go.trai.ch/assetpipe/internal/adapters/logger"
	_ "go.trai.ch/assetpipe/internal/adapters/metrics"
	_ "go.trai.ch/assetpipe/internal/adapters/telemetry"
	_ "go.trai.ch/assetpipe/internal/adapters/transform"
	_ "go.trai.ch/assetpipe/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/assetpipe/internal/app"
)
