// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/strata/internal/adapters/config"
	_ "go.trai.ch/strata/internal/adapters/daemon"
	_ "go.trai.ch/strata/internal/adapters/fs"
	_ "go.trai.ch/strata/internal/adapters/logger"
	_ "go.trai.ch/strata/internal/adapters/metrics"
	_ "go.trai.ch/strata/internal/adapters/sgraph"
	_ "go.trai.ch/strata/internal/adapters/telemetry"
	_ "go.trai.ch/strata/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/strata/internal/app"
	_ "go.trai.ch/strata/internal/engine/cache"
)
