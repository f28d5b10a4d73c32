package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// AssetReader loads the source files of a category.
//
//go:generate go run go.uber.org/mock/mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks
type AssetReader interface {
	// Read returns every file under root matched by spec, with Asset.Path set
	// relative to the glob base of the pattern that matched it. It returns
	// domain.ErrSourceNotFound when nothing matches.
	Read(ctx context.Context, root string, spec domain.PathSpec) ([]domain.Asset, error)
}

// AssetWriter writes transformed assets below a destination directory.
type AssetWriter interface {
	// Write creates dest and any parents, writes every asset and returns the
	// absolute paths written.
	Write(ctx context.Context, dest string, assets []domain.Asset) ([]string, error)
}

// Cleaner removes a destination tree.
type Cleaner interface {
	// Clean removes path recursively. A missing path is not an error.
	Clean(ctx context.Context, path string) error
}
