// Package config loads the optional assetpipe.yaml project file.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	Filename string
}

// NewLoader creates a loader reading domain.ConfigFileName.
func NewLoader() *Loader {
	return &Loader{Filename: domain.ConfigFileName}
}

// Load resolves the project rooted at cwd. Without a project file the stock
// layout is returned.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	file := filepath.Join(root, l.Filename)
	data, err := os.ReadFile(file) //nolint:gosec // project file under cwd
	if errors.Is(err, fs.ErrNotExist) {
		return build(root, &Projectfile{})
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", file)
	}

	var pf Projectfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", file)
	}

	p, err := build(root, &pf)
	if err != nil {
		return nil, zerr.With(err, "file", file)
	}
	return p, nil
}

//nolint:cyclop // flat field-by-field overlay
func build(root string, pf *Projectfile) (*domain.Project, error) {
	p, err := domain.NewDefaultProject(root)
	if err != nil {
		return nil, err
	}

	if pf.Dist != "" {
		p.DistRoot = pf.Dist
	}
	if pf.Server.Host != "" {
		p.Server.Host = pf.Server.Host
	}
	if pf.Server.Port != nil {
		p.Server.Port = *pf.Server.Port
	}

	if len(pf.Styles.IncludePaths) > 0 {
		p.Styles.IncludePaths = pf.Styles.IncludePaths
	}
	if pf.Styles.SassBinary != "" {
		p.Styles.SassBinary = pf.Styles.SassBinary
	}

	if pf.Scripts.Target != "" {
		p.Scripts.Target = pf.Scripts.Target
	}
	if pf.Scripts.Externals != nil {
		p.Scripts.Externals = maps.Clone(pf.Scripts.Externals)
	}

	if pf.Watch.Debounce != "" {
		d, err := time.ParseDuration(pf.Watch.Debounce)
		if err != nil || d < 0 {
			return nil, zerr.With(domain.ErrConfigInvalid, "watch.debounce", pf.Watch.Debounce)
		}
		p.Watch.Debounce = d
	}
	if pf.Watch.Ignore != nil {
		p.Watch.Ignore = pf.Watch.Ignore
	} else if pf.Dist != "" {
		p.Watch.Ignore = append(p.Watch.Ignore, path.Clean(pf.Dist))
	}
	if pf.Watch.ReloadOnly != nil {
		p.Watch.ReloadOnly = pf.Watch.ReloadOnly
	}

	sources, err := overlayPaths(pf)
	if err != nil {
		return nil, err
	}
	paths, err := domain.NewPathTable(sources)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "section", "paths")
	}
	p.Paths = paths

	dispatch, err := domain.NewDispatchTable(paths, p.Watch.ReloadOnly)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "section", "watch")
	}
	p.Dispatch = dispatch

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func overlayPaths(pf *Projectfile) (map[domain.Category]domain.PathSource, error) {
	sources := domain.DefaultPathSources()
	known := make(map[domain.Category]bool, len(sources))
	for _, c := range domain.Categories() {
		known[c] = true
		if pf.Dist != "" {
			src := sources[c]
			src.Dest = rebase(src.Dest, pf.Dist)
			sources[c] = src
		}
	}

	for name, dto := range pf.Paths {
		c := domain.Category(name)
		if !known[c] {
			return nil, zerr.With(domain.ErrConfigInvalid, "category", name)
		}
		src := sources[c]
		if len(dto.Src) > 0 {
			src.Patterns = dto.Src
		}
		if dto.Dest != "" {
			src.Dest = dto.Dest
		}
		if dto.Claims != nil {
			src.Claims = dto.Claims
		}
		sources[c] = src
	}

	if pf.Scripts.Entry != "" {
		src := sources[domain.CategoryScripts]
		src.Patterns = []string{pf.Scripts.Entry}
		sources[domain.CategoryScripts] = src
	}
	return sources, nil
}

// rebase moves a stock destination under a custom destination root.
func rebase(dest, dist string) string {
	if dest == domain.DistDirName {
		return dist
	}
	return path.Join(dist, strings.TrimPrefix(dest, domain.DistDirName+"/"))
}
