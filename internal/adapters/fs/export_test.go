package fs

import "io/fs"

// NewWalkerFS creates a Walker that walks fsys whatever the root.
func NewWalkerFS(fsys fs.FS) *Walker {
	return &Walker{open: func(string) fs.FS { return fsys }}
}
