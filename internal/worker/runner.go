package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

type Runner struct {
	Store     state.RunStore
	PollEvery time.Duration
	ProcessFn func(ctx context.Context, job Job) error
	Log       *logrus.Entry
}

type Job struct {
	RunID       string
	TriggeredBy string
}

func (r Runner) Run(ctx context.Context) error {
	if r.Store == nil {
		return errors.New("store is nil")
	}
	if r.PollEvery <= 0 {
		r.PollEvery = 5 * time.Second
	}
	if r.ProcessFn == nil {
		r.ProcessFn = func(context.Context, Job) error { return nil }
	}
	if r.Log == nil {
		r.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	ticker := time.NewTicker(r.PollEvery)
	defer ticker.Stop()

	// one immediate pass
	if err := r.tick(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				return err
			}
		}
	}
}

// tick claims and processes at most one run. Only one run is ever running.
func (r Runner) tick(ctx context.Context) error {
	if r.Log == nil {
		r.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	c, ok, err := r.Store.ClaimRun(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	job := Job{
		RunID:       c.RunID,
		TriggeredBy: c.TriggeredBy,
	}
	log := r.Log.WithField("run_id", job.RunID)
	log.Info("claimed sync run")

	procErr := r.ProcessFn(WithJob(ctx, job), job)
	if procErr != nil {
		log.WithError(procErr).Warn("sync run failed")
	}

	return r.settle(context.WithoutCancel(ctx), job.RunID, procErr)
}

// settle finishes a run that ProcessFn left in the running state so the
// run slot is never held by a dead run.
func (r Runner) settle(ctx context.Context, runID string, procErr error) error {
	rec, ok, err := r.Store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if !ok || rec.Status != domain.RunStatusRunning {
		return nil
	}

	if procErr != nil {
		return r.Store.FailRun(ctx, runID, state.RunOutcome{}, procErr.Error())
	}
	return r.Store.CompleteRun(ctx, runID, state.RunOutcome{Status: domain.RunStatusCompleted})
}
