package ports

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// TaskRunner runs one asset task end to end.
//
//go:generate go run go.uber.org/mock/mockgen -source=task_runner.go -destination=mocks/mock_task_runner.go -package=mocks
type TaskRunner interface {
	// Run reads, transforms and writes the task's category. A transform
	// failure is returned wrapped in domain.ErrTransformFailed and nothing is
	// written; a destination failure is wrapped in domain.ErrFatalIO.
	Run(ctx context.Context, id domain.TaskID) (domain.TaskResult, error)
}
