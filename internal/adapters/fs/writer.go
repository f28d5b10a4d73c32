package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AssetWriter = (*Writer)(nil)

// Writer writes assets with a temp file and rename, so the dev server never
// serves a half-written file.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write writes every asset below dest and returns the absolute paths written.
func (w *Writer) Write(ctx context.Context, dest string, assets []domain.Asset) ([]string, error) {
	written := make([]string, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target := filepath.Join(dest, filepath.FromSlash(a.Path))
		if err := writeFile(target, a.Data); err != nil {
			return written, errors.Join(domain.ErrFatalIO, zerr.With(err, "file", target))
		}
		written = append(written, target)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	tmpFile, err := os.CreateTemp(dir, ".assetpipe-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp output file")
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write output file")
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp output file")
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod output file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp output file")
	}
	return nil
}
