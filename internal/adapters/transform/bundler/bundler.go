// Package bundler bundles a script entry with esbuild.
package bundler

import (
	"context"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Bundler)(nil)

const externalNamespace = "assetpipe-external"

// globalScope resolves the page's global object without ES2020 globalThis.
const globalScope = `(typeof globalThis !== "undefined" ? globalThis : window)`

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// Options configures a Bundler.
type Options struct {
	// Target is the language level output is downleveled to.
	Target string
	// Externals maps import specifiers to globals provided by the page.
	Externals map[string]string
	// Production minifies the bundle and drops source maps.
	Production bool
	// WorkDir is the directory bare module imports are resolved from.
	WorkDir string
}

// Bundler implements ports.Transformer. Every input asset is an entry point
// producing one bundle with the same name.
type Bundler struct {
	opts Options
}

// New creates a Bundler.
func New(opts Options) *Bundler {
	return &Bundler{opts: opts}
}

// Name identifies the stage.
func (b *Bundler) Name() string { return "esbuild" }

// Transform bundles each entry with its imports inlined.
func (b *Bundler) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	target, ok := targets[strings.ToLower(b.opts.Target)]
	if !ok {
		return nil, zerr.With(zerr.New("unsupported script target"), "target", b.opts.Target)
	}

	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bundle, err := b.bundle(a, target)
		if err != nil {
			return nil, err
		}
		bundled := a.WithExt(".js")
		bundled.Data = bundle
		out = append(out, bundled)
	}
	return out, nil
}

func (b *Bundler) bundle(a domain.Asset, target api.Target) ([]byte, error) {
	opts := api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(a.Data),
			ResolveDir: filepath.Dir(a.Source),
			Sourcefile: filepath.Base(a.Source),
			Loader:     api.LoaderJS,
		},
		AbsWorkingDir: b.workDir(a),
		Bundle:        true,
		Write:         false,
		Outfile:       filepath.Join(b.workDir(a), filepath.Base(a.WithExt(".js").Path)),
		Format:        api.FormatIIFE,
		Target:        target,
		Sourcemap:     api.SourceMapInline,
		LogLevel:      api.LogLevelSilent,
		Plugins:       b.plugins(),
	}
	if b.opts.Production {
		opts.Sourcemap = api.SourceMapNone
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
		opts.Define = map[string]string{"process.env.NODE_ENV": `"production"`}
	} else {
		opts.Define = map[string]string{"process.env.NODE_ENV": `"development"`}
	}

	result := api.Build(opts)
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		err := zerr.New(strings.TrimSpace(strings.Join(msgs, "\n")))
		return nil, zerr.With(zerr.Wrap(err, "bundling failed"), "entry", a.Source)
	}

	for _, f := range result.OutputFiles {
		if strings.HasSuffix(f.Path, ".js") {
			return f.Contents, nil
		}
	}
	return nil, zerr.With(zerr.New("bundler produced no script"), "entry", a.Source)
}

func (b *Bundler) workDir(a domain.Asset) string {
	if b.opts.WorkDir != "" {
		return b.opts.WorkDir
	}
	return filepath.Dir(a.Source)
}

// plugins maps every external specifier to a module re-exporting the global
// the page already provides.
func (b *Bundler) plugins() []api.Plugin {
	if len(b.opts.Externals) == 0 {
		return nil
	}

	names := slices.Sorted(maps.Keys(b.opts.Externals))
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	filter := "^(" + strings.Join(quoted, "|") + ")$"
	externals := maps.Clone(b.opts.Externals)

	return []api.Plugin{{
		Name: "globals",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				return api.OnResolveResult{Path: args.Path, Namespace: externalNamespace}, nil
			})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: externalNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				contents := "module.exports = " + globalScope + "[" + quoteJS(externals[args.Path]) + "];"
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
			})
		},
	}}
}

func quoteJS(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
