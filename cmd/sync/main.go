package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/bootstrap"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/execute"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/ingest"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitPartial = 2
)

type report struct {
	execute.Result
	Error string `json:"error,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	log := bootstrap.Logger("sync", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fr, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("startup failed")
		return exitFailed
	}
	if fr.DB != nil {
		defer fr.DB.Close()
	}

	orch, err := bootstrap.Orchestrator(cfg, fr.Store, log)
	if err != nil {
		log.WithError(err).Error("taxonomy load failed")
		return exitFailed
	}

	runID, err := ingest.NewRunID()
	if err != nil {
		log.WithError(err).Error("run id failed")
		return exitFailed
	}

	err = fr.Store.InsertRun(ctx, state.RunRecord{
		RunID:       runID,
		TriggeredBy: "cli",
		CreatedAt:   time.Now().UTC(),
	})
	if err == nil {
		err = fr.Store.StartRun(ctx, runID)
	}
	if err != nil {
		log.WithError(err).Error("could not start sync run")
		return exitFailed
	}

	ex := execute.Executor{Store: fr.Store, Orchestrator: orch, Log: log}
	res, runErr := ex.Execute(ctx, runID)

	out := report{Result: res}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)

	return exitCode(res.Status, runErr)
}

func exitCode(status domain.RunStatus, err error) int {
	switch {
	case err != nil:
		return exitFailed
	case status == domain.RunStatusPartial:
		return exitPartial
	case status == domain.RunStatusCompleted, status == domain.RunStatusEmpty:
		return exitOK
	}
	logrus.WithField("status", status).Warn("unexpected final status")
	return exitFailed
}
