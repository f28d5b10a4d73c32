package ports

import "go.trai.ch/assetpipe/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the project rooted at cwd. A missing project file is not
	// an error: the stock layout is returned instead.
	Load(cwd string) (*domain.Project, error)
}
