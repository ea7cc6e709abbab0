// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/manifold/internal/adapters/config"
	_ "go.trai.ch/manifold/internal/adapters/logger"
	_ "go.trai.ch/manifold/internal/adapters/render"
	_ "go.trai.ch/manifold/internal/adapters/settings"
	_ "go.trai.ch/manifold/internal/adapters/shell"
	_ "go.trai.ch/manifold/internal/adapters/store"
	_ "go.trai.ch/manifold/internal/adapters/telemetry"
	_ "go.trai.ch/manifold/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/manifold/internal/app"
)
