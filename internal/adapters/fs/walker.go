// Package fs provides file system adapters for reading sources, writing
// outputs and cleaning the destination root.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
)

// Walker provides file walking functionality.
type Walker struct {
	open func(root string) fs.FS
}

// NewWalker creates a Walker over the operating system's file system.
func NewWalker() *Walker {
	return &Walker{open: os.DirFS}
}

// WalkFiles yields every file below root, skipping version control
// directories and directories whose name is in ignores. A missing root or
// an entry removed during the walk is not an error. Any other failure ends
// the walk with a single ("", err) pair.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := fs.WalkDir(w.open(root), ".", func(rel string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}

			if d.IsDir() {
				if rel != "." && w.skipDir(d.Name(), ignores) {
					return fs.SkipDir
				}
				return nil
			}

			if !yield(filepath.Join(root, filepath.FromSlash(rel)), nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func (w *Walker) skipDir(name string, ignores []string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	return slices.Contains(ignores, name)
}
