// Package pipeline composes the clean step, the asset tasks, the dev server
// and the watch loop into the build and dev pipelines.
package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Watcher runs the watch loop until its context is cancelled.
type Watcher interface {
	Run(ctx context.Context) error
}

// Pipeline runs the pipelines of one project in one mode.
type Pipeline struct {
	project *domain.Project
	mode    domain.Mode
	cleaner ports.Cleaner
	runner  ports.TaskRunner
	server  ports.DevServer
	watcher Watcher
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates a Pipeline. server and watcher are only used by Dev.
func New(
	project *domain.Project,
	mode domain.Mode,
	cleaner ports.Cleaner,
	runner ports.TaskRunner,
	server ports.DevServer,
	watcher Watcher,
	logger ports.Logger,
	tracer ports.Tracer,
) *Pipeline {
	return &Pipeline{
		project: project,
		mode:    mode,
		cleaner: cleaner,
		runner:  runner,
		server:  server,
		watcher: watcher,
		logger:  logger,
		tracer:  tracer,
	}
}

// Build removes the destination root, then runs every asset task in
// parallel. A failed task is logged and the others run to completion; the
// result is then domain.ErrBuildFailed. A destination failure cancels the
// remaining tasks and is returned as is.
func (p *Pipeline) Build(ctx context.Context) error {
	tasks := domain.AssetTasks()
	names := make([]string, 0, len(tasks)+1)
	names = append(names, "clean")
	for _, id := range tasks {
		names = append(names, id.String())
	}
	ctx, span := p.tracer.Start(ctx, "build", ports.WithTask())
	defer span.End()
	p.tracer.EmitPlan(ctx, names)
	span.SetAttribute("assetpipe.mode", p.mode.String())

	if err := p.clean(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range tasks {
		g.Go(func() error {
			_, err := p.runner.Run(gctx, id)
			if err == nil {
				return nil
			}
			if errors.Is(err, domain.ErrFatalIO) || gctx.Err() != nil {
				return err
			}
			p.logger.Error(err)
			mu.Lock()
			failed = append(failed, id.String())
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	if len(failed) > 0 {
		slices.Sort(failed)
		span.SetAttribute("assetpipe.failed", failed)
		span.RecordError(domain.ErrBuildFailed)
		return domain.ErrBuildFailed
	}
	return nil
}

func (p *Pipeline) clean(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "clean", ports.WithTask())
	defer span.End()

	if err := p.cleaner.Clean(ctx, p.project.DistPath()); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Dev builds, serves the destination root and reruns tasks on change until
// ctx is cancelled. Task failures in the initial build are tolerated.
func (p *Pipeline) Dev(ctx context.Context) error {
	if err := p.Build(ctx); err != nil && !errors.Is(err, domain.ErrBuildFailed) {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	srv := p.project.Server
	if err := p.server.Start(ctx, p.project.DistPath(), srv.Host, srv.Port); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := p.server.Shutdown(shutdownCtx); err != nil {
			p.logger.Error(zerr.Wrap(err, "failed to stop dev server"))
		}
	}()

	p.logger.Info("Serving " + p.project.DistRoot + " at " + style.URL("http://"+p.server.Addr()))
	return p.watcher.Run(ctx)
}
