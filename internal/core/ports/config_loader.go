package ports

import "go.trai.ch/sdnode/internal/core/domain"

// ConfigLoader defines the interface for loading the sdnode configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to find sdnode.yaml and returns the resolved configuration.
	// Defaults are returned when no file is found.
	Load(cwd string) (*domain.Config, error)

	// LoadJob reads and validates a job file.
	LoadJob(path string) (*domain.Job, error)
}
