// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cleanbuild/internal/adapters/config"
	_ "go.trai.ch/cleanbuild/internal/adapters/fs"
	_ "go.trai.ch/cleanbuild/internal/adapters/logger"
	_ "go.trai.ch/cleanbuild/internal/adapters/report"
	_ "go.trai.ch/cleanbuild/internal/adapters/shell"
	_ "go.trai.ch/cleanbuild/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/cleanbuild/internal/app"
)
