package domain

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// ServerOptions configures the dev server.
type ServerOptions struct {
	Host string
	Port int
}

// StyleOptions configures the stylesheet compiler.
type StyleOptions struct {
	// IncludePaths are extra directories searched by stylesheet imports.
	IncludePaths []string
	// SassBinary is the Dart Sass executable speaking the embedded protocol.
	SassBinary string
}

// ScriptOptions configures the script bundler.
type ScriptOptions struct {
	// Target is the language level output is downleveled to, e.g. "es2015".
	Target string
	// Externals maps import specifiers to globals provided at runtime.
	Externals map[string]string
}

// WatchOptions configures the dev watcher.
type WatchOptions struct {
	Debounce   time.Duration
	Ignore     []string
	ReloadOnly []string
}

// Project is everything one pipeline run needs, resolved from the project
// file and defaults.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// DistRoot is the project-relative destination root removed by clean.
	DistRoot string
	Paths    PathTable
	Dispatch DispatchTable
	Server   ServerOptions
	Styles   StyleOptions
	Scripts  ScriptOptions
	Watch    WatchOptions
}

// NewDefaultProject returns the stock project rooted at root.
func NewDefaultProject(root string) (*Project, error) {
	paths := DefaultPathTable()
	p := &Project{
		Root:     root,
		DistRoot: DistDirName,
		Paths:    paths,
		Server:   ServerOptions{Host: DefaultHost, Port: DefaultPort},
		Styles:   StyleOptions{SassBinary: "sass"},
		Scripts:  ScriptOptions{Target: DefaultScriptTarget, Externals: DefaultExternals()},
		Watch: WatchOptions{
			Debounce:   DefaultDebounce,
			Ignore:     DefaultIgnoredDirs(),
			ReloadOnly: DefaultReloadOnly(),
		},
	}
	dispatch, err := NewDispatchTable(paths, p.Watch.ReloadOnly)
	if err != nil {
		return nil, err
	}
	p.Dispatch = dispatch
	return p, nil
}

// Validate checks that every destination lives under the destination root,
// which is what makes clean-before-build remove all stale output.
func (p *Project) Validate() error {
	if p.DistRoot == "" || p.DistRoot == "." || strings.HasPrefix(path.Clean(p.DistRoot), "..") {
		return zerr.With(ErrConfigInvalid, "dist", p.DistRoot)
	}
	for _, c := range p.Paths.Categories() {
		spec, err := p.Paths.Lookup(c)
		if err != nil {
			return err
		}
		if _, err := p.DestRelative(spec.Dest()); err != nil {
			return zerr.With(err, "category", string(c))
		}
	}
	if p.Server.Port < 0 || p.Server.Port > 65535 {
		return zerr.With(ErrConfigInvalid, "port", p.Server.Port)
	}
	return nil
}

// DistPath returns the absolute destination root.
func (p *Project) DistPath() string {
	return filepath.Join(p.Root, filepath.FromSlash(p.DistRoot))
}

// Abs returns the absolute form of a project-relative slash path.
func (p *Project) Abs(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// DestRelative returns dest relative to the destination root.
func (p *Project) DestRelative(dest string) (string, error) {
	root := path.Clean(p.DistRoot)
	dest = path.Clean(dest)
	if dest == root {
		return ".", nil
	}
	if !strings.HasPrefix(dest, root+"/") {
		return "", zerr.With(ErrDestOutsideRoot, "dest", dest)
	}
	return strings.TrimPrefix(dest, root+"/"), nil
}

// Rel converts an absolute path to a project-relative slash path.
// It reports false for paths outside the project.
func (p *Project) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// InDist reports whether a project-relative path lies in the destination root.
func (p *Project) InDist(rel string) bool {
	root := path.Clean(p.DistRoot)
	return rel == root || strings.HasPrefix(rel, root+"/")
}
