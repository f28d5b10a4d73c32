// Package sass compiles SCSS entry files through the Dart Sass embedded
// protocol.
package sass

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Compiler)(nil)

const compileTimeout = 2 * time.Minute

// Transpiler is the subset of *godartsass.Transpiler the compiler uses.
type Transpiler interface {
	Execute(args godartsass.Args) (godartsass.Result, error)
	Close() error
}

// Options configures a Compiler.
type Options struct {
	// Binary is the Dart Sass executable. Empty means "sass" on PATH.
	Binary       string
	IncludePaths []string
	// SourceMap appends an inline source map to every stylesheet.
	SourceMap bool
}

// Compiler implements ports.Transformer. The Dart Sass process is started on
// first use and shared by every later call until Close. The transpiler
// multiplexes concurrent requests itself.
type Compiler struct {
	opts   Options
	logger ports.Logger
	start  func() (Transpiler, error)

	once     sync.Once
	t        Transpiler
	startErr error
}

// New creates a Compiler that launches Dart Sass on demand.
func New(opts Options, logger ports.Logger) *Compiler {
	c := &Compiler{opts: opts, logger: logger}
	c.start = func() (Transpiler, error) {
		t, err := godartsass.Start(godartsass.Options{
			DartSassEmbeddedFilename: opts.Binary,
			Timeout:                  compileTimeout,
			LogEventHandler:          c.logEvent,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return c
}

// Name identifies the stage.
func (c *Compiler) Name() string { return "sass" }

// Transform compiles every stylesheet to CSS and renames it to .css.
func (c *Compiler) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	c.once.Do(func() {
		c.t, c.startErr = c.start()
	})
	if c.startErr != nil {
		return nil, zerr.With(zerr.Wrap(c.startErr, "failed to start dart sass"), "binary", c.binary())
	}

	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		css, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		compiled := a.WithExt(".css")
		compiled.Data = css
		out = append(out, compiled)
	}
	return out, nil
}

func (c *Compiler) compile(a domain.Asset) ([]byte, error) {
	syntax := godartsass.SourceSyntaxSCSS
	switch filepath.Ext(a.Source) {
	case ".sass":
		syntax = godartsass.SourceSyntaxSASS
	case ".css":
		syntax = godartsass.SourceSyntaxCSS
	}

	args := godartsass.Args{
		Source:                  string(a.Data),
		URL:                     "file://" + filepath.ToSlash(a.Source),
		OutputStyle:             godartsass.OutputStyleExpanded,
		SourceSyntax:            syntax,
		IncludePaths:            slices.Concat([]string{filepath.Dir(a.Source)}, c.opts.IncludePaths),
		EnableSourceMap:         c.opts.SourceMap,
		SourceMapIncludeSources: c.opts.SourceMap,
	}

	res, err := c.t.Execute(args)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "sass compilation failed"), "file", a.Source)
	}

	css := res.CSS
	if c.opts.SourceMap && res.SourceMap != "" {
		css += "\n/*# sourceMappingURL=data:application/json;charset=utf-8;base64," +
			base64.StdEncoding.EncodeToString([]byte(res.SourceMap)) + " */"
	}
	return []byte(css + "\n"), nil
}

func (c *Compiler) logEvent(e godartsass.LogEvent) {
	if c.logger == nil {
		return
	}
	if e.Type == godartsass.LogEventTypeDebug {
		c.logger.Info("sass: " + e.Message)
		return
	}
	c.logger.Warn("sass: " + e.Message)
}

func (c *Compiler) binary() string {
	if c.opts.Binary == "" {
		return "sass"
	}
	return c.opts.Binary
}

// Close stops the Dart Sass process if it was started.
func (c *Compiler) Close() error {
	if c.t == nil {
		return nil
	}
	return c.t.Close()
}
