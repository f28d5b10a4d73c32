package fs

import (
	"context"
	"errors"
	"os"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cleaner = (*Cleaner)(nil)

// Cleaner removes the destination root.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes path and everything below it. A missing path is a no-op.
func (c *Cleaner) Clean(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Join(domain.ErrFatalIO, zerr.With(zerr.Wrap(err, "failed to remove destination"), "path", path))
	}
	return nil
}
