package app

import "go.trai.ch/cleanbuild/internal/core/ports"

// Components holds the application components resolved by the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}
