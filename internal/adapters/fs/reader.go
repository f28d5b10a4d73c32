package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AssetReader = (*Reader)(nil)

// Reader resolves a category's globs against the project tree and loads
// every match.
type Reader struct {
	walker *Walker
}

// NewReader creates a new Reader.
func NewReader(walker *Walker) *Reader {
	return &Reader{walker: walker}
}

// Read returns the matched files sorted by project path. Each file is read
// once even when several patterns match it.
func (r *Reader) Read(ctx context.Context, root string, spec domain.PathSpec) ([]domain.Asset, error) {
	matcher := spec.Matcher()
	if matcher == nil {
		return nil, zerr.With(domain.ErrEmptyPatterns, "category", spec.Category().String())
	}

	bases := make(map[string]string)
	for _, walkRoot := range matcher.Roots() {
		for path, err := range r.walker.WalkFiles(filepath.Join(root, filepath.FromSlash(walkRoot)), nil) {
			if err != nil {
				return nil, errors.Join(
					domain.ErrSourceReadFailed,
					zerr.With(zerr.Wrap(err, "walk sources"), "dir", walkRoot),
				)
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if base, ok := matcher.Base(rel); ok {
				bases[rel] = base
			}
		}
	}

	if len(bases) == 0 {
		return nil, domain.ErrSourceNotFound
	}

	rels := make([]string, 0, len(bases))
	for rel := range bases {
		rels = append(rels, rel)
	}
	slices.Sort(rels)

	assets := make([]domain.Asset, 0, len(rels))
	for _, rel := range rels {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(abs) //nolint:gosec // path comes from walking the project tree
		if err != nil {
			return nil, errors.Join(
				domain.ErrSourceReadFailed,
				zerr.With(zerr.Wrap(err, "read source"), "file", rel),
			)
		}
		assets = append(assets, domain.Asset{
			Path:   domain.RelativeTo(bases[rel], rel),
			Source: abs,
			Data:   data,
		})
	}
	return assets, nil
}
