// Package transform assembles the per-task transform chains.
package transform

import (
	"context"

	"go.trai.ch/assetpipe/internal/adapters/transform/bundler"
	"go.trai.ch/assetpipe/internal/adapters/transform/htmlindent"
	"go.trai.ch/assetpipe/internal/adapters/transform/imagemin"
	"go.trai.ch/assetpipe/internal/adapters/transform/minifier"
	"go.trai.ch/assetpipe/internal/adapters/transform/pug"
	"go.trai.ch/assetpipe/internal/adapters/transform/sass"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Transformer   = Chain(nil)
	_ ports.ChainProvider = (*Chains)(nil)
	_ ports.ChainFactory  = (*Factory)(nil)
)

// Chain runs its stages in order, feeding each the previous stage's output.
// An empty chain passes assets through.
type Chain []ports.Transformer

// Name identifies the chain.
func (c Chain) Name() string { return "chain" }

// Transform applies every stage. The first failing stage stops the chain and
// is named in the error.
func (c Chain) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	var err error
	for _, stage := range c {
		assets, err = stage.Transform(ctx, assets)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "stage failed"), "stage", stage.Name())
		}
	}
	return assets, nil
}

// Stages returns the stage names in order.
func (c Chain) Stages() []string {
	names := make([]string, len(c))
	for i, stage := range c {
		names[i] = stage.Name()
	}
	return names
}

// Chains holds the chain of every asset task for one mode.
type Chains struct {
	chains map[domain.TaskID]Chain
	sass   *sass.Compiler
}

// NewChains builds every task's chain for the project and mode.
func NewChains(p *domain.Project, mode domain.Mode, logger ports.Logger) *Chains {
	prod := mode.IsProduction()

	compiler := sass.New(sass.Options{
		Binary:       p.Styles.SassBinary,
		IncludePaths: absAll(p, p.Styles.IncludePaths),
		SourceMap:    !prod,
	}, logger)

	styles := Chain{compiler}
	scripts := Chain{bundler.New(bundler.Options{
		Target:     p.Scripts.Target,
		Externals:  p.Scripts.Externals,
		Production: prod,
		WorkDir:    p.Root,
	})}
	templates := Chain{pug.New(mode)}
	var images Chain

	if prod {
		styles = append(styles, minifier.NewCSS())
		scripts = append(scripts, minifier.NewJS())
		templates = append(templates, minifier.NewHTML())
		images = append(images, imagemin.New(imagemin.DefaultJPEGQuality))
	} else {
		templates = append(templates, htmlindent.New())
	}

	return &Chains{
		chains: map[domain.TaskID]Chain{
			domain.TaskStyles:    styles,
			domain.TaskScripts:   scripts,
			domain.TaskImages:    images,
			domain.TaskLibs:      nil,
			domain.TaskTemplates: templates,
			domain.TaskCopy:      nil,
		},
		sass: compiler,
	}
}

// For returns the chain of a task.
func (c *Chains) For(id domain.TaskID) (Chain, error) {
	chain, ok := c.chains[id]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownTask, "task", string(id))
	}
	return chain, nil
}

// Chain implements ports.ChainProvider.
func (c *Chains) Chain(id domain.TaskID) (ports.Transformer, error) {
	return c.For(id)
}

// Close stops the external compilers the chains started.
func (c *Chains) Close() error {
	return c.sass.Close()
}

// Factory builds Chains once the project and mode are known.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory whose chains log through logger.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewChains implements ports.ChainFactory.
func (f *Factory) NewChains(p *domain.Project, mode domain.Mode) ports.ChainProvider {
	return NewChains(p, mode, f.logger)
}

func absAll(p *domain.Project, rels []string) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = p.Abs(rel)
	}
	return out
}
