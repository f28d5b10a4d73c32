// Package runner runs a single asset task: read, transform, write.
package runner

import (
	"context"
	"errors"
	"path"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TaskRunner = (*Runner)(nil)

// Runner implements ports.TaskRunner for one project and mode. Runs of
// different tasks are independent and may overlap.
type Runner struct {
	project *domain.Project
	reader  ports.AssetReader
	writer  ports.AssetWriter
	chains  ports.ChainProvider
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates a Runner.
func New(
	project *domain.Project,
	reader ports.AssetReader,
	writer ports.AssetWriter,
	chains ports.ChainProvider,
	logger ports.Logger,
	tracer ports.Tracer,
) *Runner {
	return &Runner{
		project: project,
		reader:  reader,
		writer:  writer,
		chains:  chains,
		logger:  logger,
		tracer:  tracer,
	}
}

// Run executes one task inside a task span.
func (r *Runner) Run(ctx context.Context, id domain.TaskID) (domain.TaskResult, error) {
	ctx, span := r.tracer.Start(ctx, id.String(), ports.WithTask())
	defer span.End()

	res, err := r.run(ctx, id)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	span.SetAttribute("assetpipe.outputs", len(res.Outputs))
	return res, nil
}

func (r *Runner) run(ctx context.Context, id domain.TaskID) (domain.TaskResult, error) {
	res := domain.TaskResult{Task: id}

	category, err := domain.CategoryOf(id)
	if err != nil {
		return res, err
	}
	spec, err := r.project.Paths.Lookup(category)
	if err != nil {
		return res, err
	}
	destRel, err := r.project.DestRelative(spec.Dest())
	if err != nil {
		return res, err
	}
	chain, err := r.chains.Chain(id)
	if err != nil {
		return res, err
	}

	assets, err := r.reader.Read(ctx, r.project.Root, spec)
	if errors.Is(err, domain.ErrSourceNotFound) {
		r.logger.Warn(id.String() + ": no source files matched " + strings.Join(spec.Patterns(), ", "))
		return res, nil
	}
	if err != nil {
		return res, err
	}

	out, err := chain.Transform(ctx, assets)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, errors.Join(domain.ErrTransformFailed, zerr.With(zerr.Wrap(err, "task failed"), "task", id.String()))
	}

	if _, err := r.writer.Write(ctx, r.project.Abs(spec.Dest()), out); err != nil {
		return res, err
	}

	res.Outputs = make([]string, 0, len(out))
	for _, a := range out {
		res.Outputs = append(res.Outputs, path.Join(destRel, a.Path))
	}
	return res, nil
}
