package ports

import "go.trai.ch/strata/internal/core/domain"

// ConfigLoader defines the interface for loading the runtime configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers strata.yaml from cwd upwards and returns the resolved configuration.
	// A missing file yields the defaults.
	Load(cwd string) (domain.Config, error)
}
