package ports

import "go.trai.ch/cleanbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the given working root and returns the plan.
	// An empty configPath means the default config file in root, which may be absent.
	Load(root, configPath string) (*domain.Plan, error)

	// DiscoverRoot walks up from cwd to find the working root.
	DiscoverRoot(cwd string) (string, error)
}
