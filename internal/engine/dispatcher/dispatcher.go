// Package dispatcher maps batches of changed files to task reruns and
// browser notifications.
package dispatcher

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// Dispatcher watches the project and reacts to changes through the
// project's dispatch table. Reactions of one binding never overlap;
// reactions of different bindings may.
type Dispatcher struct {
	project    *domain.Project
	watcher    ports.Watcher
	debouncers ports.DebouncerFactory
	runner     ports.TaskRunner
	reloader   ports.Reloader
	logger     ports.Logger
	tracer     ports.Tracer

	locks []sync.Mutex
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a Dispatcher.
func New(
	project *domain.Project,
	watcher ports.Watcher,
	debouncers ports.DebouncerFactory,
	runner ports.TaskRunner,
	reloader ports.Reloader,
	logger ports.Logger,
	tracer ports.Tracer,
) *Dispatcher {
	return &Dispatcher{
		project:    project,
		watcher:    watcher,
		debouncers: debouncers,
		runner:     runner,
		reloader:   reloader,
		logger:     logger,
		tracer:     tracer,
		locks:      make([]sync.Mutex, len(project.Dispatch)),
	}
}

// Run watches until ctx is cancelled, then waits for reactions in flight.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.watcher.Start(ctx, d.project.Root, d.project.Watch.Ignore); err != nil {
		return err
	}
	defer func() {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Error(zerr.Wrap(err, "failed to stop file watcher"))
		}
	}()

	deb := d.debouncers.NewDebouncer(d.project.Watch.Debounce, func(paths []string) {
		d.Dispatch(ctx, paths)
	})
	for ev := range d.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		deb.Add(ev.Path)
	}

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Wait()
	return nil
}

// Dispatch splits a batch of absolute paths by the first binding each path
// matches and starts one reaction per binding. Paths outside the project,
// inside the destination root, or matching no binding are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, paths []string) {
	groups := make(map[int][]string)
	for _, abs := range paths {
		rel, ok := d.project.Rel(abs)
		if !ok || d.project.InDist(rel) {
			continue
		}
		i, ok := d.project.Dispatch.Match(rel)
		if !ok {
			continue
		}
		groups[i] = append(groups[i], rel)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	for _, i := range slices.Sorted(maps.Keys(groups)) {
		d.wg.Add(1)
		go func(i int, rels []string) {
			defer d.wg.Done()
			d.react(ctx, i, rels)
		}(i, groups[i])
	}
}

// Wait blocks until every started reaction has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) react(ctx context.Context, i int, rels []string) {
	d.locks[i].Lock()
	defer d.locks[i].Unlock()

	if ctx.Err() != nil {
		return
	}

	b := d.project.Dispatch[i]
	ctx, span := d.tracer.Start(ctx, "watch:"+b.Name)
	defer span.End()
	span.SetAttribute("assetpipe.changed", rels)

	var outputs []string
	for _, id := range b.Tasks {
		res, err := d.runner.Run(ctx, id)
		if err != nil {
			span.RecordError(err)
			if !errors.Is(err, context.Canceled) {
				d.logger.Error(err)
			}
			return
		}
		outputs = append(outputs, res.Outputs...)
	}

	switch b.Reaction {
	case domain.ReactionStream:
		d.reloader.StreamUpdate(ctx, outputs)
	case domain.ReactionReload:
		d.reloader.Reload(ctx)
	}
}
