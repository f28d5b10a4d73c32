package domain

import (
	"path"
	"strings"
)

// Asset is one file flowing through a task's transform chain.
type Asset struct {
	// Path is the slash-separated output path relative to the destination.
	Path string
	// Source is the absolute path of the file the asset was read from.
	// Transforms that resolve imports use its directory.
	Source string
	// Data is the file content.
	Data []byte
}

// WithExt returns a copy of the asset with its path extension replaced.
func (a Asset) WithExt(ext string) Asset {
	base := strings.TrimSuffix(a.Path, path.Ext(a.Path))
	a.Path = base + ext
	return a
}

// Ext returns the lowercase extension of the asset path.
func (a Asset) Ext() string {
	return strings.ToLower(path.Ext(a.Path))
}

// TaskResult reports what a successful task run wrote.
type TaskResult struct {
	Task TaskID
	// Outputs are the written files as slash-separated paths relative to the
	// destination root, which is also their URL path on the dev server.
	Outputs []string
}
