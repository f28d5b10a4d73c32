package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// Transformer is one stage of a task's chain. Stages are built for a fixed
// mode, so they only see the assets.
//
//go:generate go run go.uber.org/mock/mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Name identifies the stage in logs and errors.
	Name() string
	// Transform returns the assets the next stage receives. A stage may
	// rename, merge or drop assets.
	Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error)
}

// ChainProvider resolves the ordered transform chain of an asset task.
type ChainProvider interface {
	Chain(id domain.TaskID) (Transformer, error)
	// Close stops external compilers the chains started.
	Close() error
}

// ChainFactory builds the chains of every asset task for one project and mode.
type ChainFactory interface {
	NewChains(project *domain.Project, mode domain.Mode) ChainProvider
}
