package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/bootstrap"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/execute"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := bootstrap.Logger("worker", cfg)

	logger.WithFields(logrus.Fields{
		"env":           cfg.Env,
		"state_backend": cfg.StateBackend,
		"dsn_set":       cfg.DSN != "",
	}).Info("config loaded")

	if cfg.StateBackend == "" || cfg.StateBackend == "memory" {
		logger.Warn("memory backend: only runs queued in this process are visible")
	}

	fr, err := bootstrap.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}

	orch, err := bootstrap.Orchestrator(cfg, fr.Store, logger)
	if err != nil {
		logger.WithError(err).Fatal("taxonomy load failed")
	}

	r := worker.Runner{
		Store:     fr.Store,
		PollEvery: cfg.WorkerPollEvery,
		ProcessFn: worker.ProcessWith(execute.Executor{
			Store:        fr.Store,
			Orchestrator: orch,
			Log:          logger,
		}),
		Log: logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Infof("starting (env=%s)", cfg.Env)

		err := r.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Fatal("worker stopped")
		}
	}()

	waitForShutdown(logger, cancel)
	<-done
	if fr.DB != nil {
		_ = fr.DB.Close()
	}
	logger.Info("shutdown complete")
}

func waitForShutdown(logger *logrus.Entry, cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutdown signal received")
	cancel()
}
