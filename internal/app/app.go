// Package app implements the application layer for assetpipe.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/assetpipe/internal/build"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/engine/dispatcher"
	"go.trai.ch/assetpipe/internal/engine/pipeline"
	"go.trai.ch/assetpipe/internal/engine/runner"
	"go.trai.ch/zerr"
)

// App loads the project and runs one of its pipelines.
type App struct {
	configLoader ports.ConfigLoader
	reader       ports.AssetReader
	writer       ports.AssetWriter
	cleaner      ports.Cleaner
	chains       ports.ChainFactory
	server       ports.DevServer
	watcher      ports.Watcher
	debouncers   ports.DebouncerFactory
	logger       ports.Logger
	tracer       ports.Tracer
	root         string
}

// New creates a new App instance rooted at the working directory.
func New(
	loader ports.ConfigLoader,
	reader ports.AssetReader,
	writer ports.AssetWriter,
	cleaner ports.Cleaner,
	chains ports.ChainFactory,
	server ports.DevServer,
	watcher ports.Watcher,
	debouncers ports.DebouncerFactory,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		reader:       reader,
		writer:       writer,
		cleaner:      cleaner,
		chains:       chains,
		server:       server,
		watcher:      watcher,
		debouncers:   debouncers,
		logger:       log,
		tracer:       tracer,
		root:         ".",
	}
}

// WithRoot sets the directory the project is loaded from.
func (a *App) WithRoot(root string) *App {
	a.root = root
	return a
}

// RunOptions configures a pipeline run.
type RunOptions struct {
	// Production selects minified output without source maps.
	Production bool
}

// Build runs the build pipeline once.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, (*pipeline.Pipeline).Build)
}

// Dev builds, serves the output and rebuilds on change until ctx is cancelled.
func (a *App) Dev(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, (*pipeline.Pipeline).Dev)
}

func (a *App) run(
	ctx context.Context,
	opts RunOptions,
	pipelineFn func(*pipeline.Pipeline, context.Context) error,
) error {
	project, err := a.configLoader.Load(a.root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	mode := domain.ModeFromFlag(opts.Production)
	a.logger.Info(fmt.Sprintf("assetpipe %s in %s mode", build.Version, mode))

	chains := a.chains.NewChains(project, mode)
	defer func() {
		if closeErr := chains.Close(); closeErr != nil {
			a.logger.Warn("failed to stop transform chains: " + closeErr.Error())
		}
		if shutdownErr := a.tracer.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			a.logger.Warn("failed to flush spans: " + shutdownErr.Error())
		}
	}()

	tasks := runner.New(project, a.reader, a.writer, chains, a.logger, a.tracer)
	watch := dispatcher.New(project, a.watcher, a.debouncers, tasks, a.server, a.logger, a.tracer)
	p := pipeline.New(project, mode, a.cleaner, tasks, a.server, watch, a.logger, a.tracer)

	return pipelineFn(p, ctx)
}
