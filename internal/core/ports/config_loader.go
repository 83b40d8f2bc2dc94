package ports

import "go.trai.ch/memo/internal/core/domain"

// ConfigLoader defines the interface for loading process settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads settings from the environment and the settings files in cwd.
	Load(cwd string) (*domain.Settings, error)
}
