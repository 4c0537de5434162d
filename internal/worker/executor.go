package worker

import (
	"context"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/execute"
)

type RunExecutor interface {
	Execute(ctx context.Context, runID string) (execute.Result, error)
}

// ProcessWith adapts a RunExecutor to a Runner's ProcessFn.
func ProcessWith(ex RunExecutor) func(ctx context.Context, job Job) error {
	return func(ctx context.Context, job Job) error {
		_, err := ex.Execute(ctx, job.RunID)
		return err
	}
}
