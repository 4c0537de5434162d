package execute

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

// Executor runs a sync for a run record and persists the outcome.
type Executor struct {
	Store        state.RunStore
	Orchestrator Orchestrator
	Log          *logrus.Entry
	Now          func() time.Time
}

// Execute syncs on behalf of runID, which must already be running. The
// outcome and product failures are written even when ctx is canceled.
func (e Executor) Execute(ctx context.Context, runID string) (Result, error) {
	if e.Store == nil {
		return Result{}, errors.New("store is nil")
	}
	if runID == "" {
		return Result{}, errors.New("runID is required")
	}

	now := e.Now
	if now == nil {
		now = time.Now
	}

	log := e.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("run_id", runID)

	o := e.Orchestrator
	o.Log = log

	started := now()
	res, runErr := o.Sync(ctx)
	res.RunID = runID

	persist := context.WithoutCancel(ctx)
	if len(res.Failures) > 0 {
		if err := e.Store.InsertRunFailures(persist, runID, res.Failures); err != nil {
			return res, errors.Join(runErr, err)
		}
	}

	metrics.RecordRun(string(res.Status), now().Sub(started))

	if runErr != nil {
		log.WithError(runErr).Error("sync failed")
		if err := e.Store.FailRun(persist, runID, res.Outcome(), runErr.Error()); err != nil {
			return res, errors.Join(runErr, err)
		}
		return res, runErr
	}

	log.WithFields(logrus.Fields{
		"status":      res.Status,
		"imported":    res.Imported,
		"categorized": res.Categorized,
		"failed":      res.Failed,
	}).Info("sync finished")

	if err := e.Store.CompleteRun(persist, runID, res.Outcome()); err != nil {
		return res, err
	}
	return res, nil
}
