package worker

import "context"

type jobKey struct{}

// WithJob attaches the claimed job so code below ProcessFn can tag its
// logs with the run and the operator that queued it.
func WithJob(ctx context.Context, job Job) context.Context {
	if job.RunID == "" {
		return ctx
	}
	return context.WithValue(ctx, jobKey{}, job)
}

func JobFrom(ctx context.Context) (Job, bool) {
	job, ok := ctx.Value(jobKey{}).(Job)
	return job, ok
}

// RunID is empty outside a claimed job.
func RunID(ctx context.Context) string {
	job, _ := JobFrom(ctx)
	return job.RunID
}
