// Package bootstrap builds the pieces shared by the sync, api and worker
// binaries from a loaded Config.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/execute"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/logging"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/migrate"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/shopify"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/taxonomy"
)

func Logger(service string, cfg config.Config) *logrus.Entry {
	return logging.New(service, logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
}

// OpenStore opens the configured state backend and applies migrations
// when RUN_MIGRATIONS is set.
func OpenStore(ctx context.Context, cfg config.Config, log *logrus.Entry) (state.FactoryResult, error) {
	res, err := state.NewStore(ctx, state.FactoryConfig{
		Backend: cfg.StateBackend,
		DSN:     cfg.DSN,
	})
	if err != nil {
		return state.FactoryResult{}, fmt.Errorf("state store init failed: %w", err)
	}

	if res.DB != nil && cfg.RunMigrations {
		if err := migrate.Apply(ctx, res.DB, string(res.Dialect)); err != nil {
			_ = res.DB.Close()
			return state.FactoryResult{}, fmt.Errorf("migrations failed: %w", err)
		}
		log.WithField("dialect", res.Dialect).Info("migrations applied")
	}

	return res, nil
}

// Orchestrator wires the Shopify client, taxonomy and catalog store.
// Missing credentials are not an error here; Sync reports them.
func Orchestrator(cfg config.Config, store state.CatalogStore, log *logrus.Entry) (execute.Orchestrator, error) {
	cls, err := taxonomy.LoadFile(cfg.TaxonomyFile)
	if err != nil {
		return execute.Orchestrator{}, err
	}

	return execute.Orchestrator{
		Shopify:    cfg.Shopify,
		Source:     shopify.NewClient(cfg.Shopify, &http.Client{}),
		Store:      store,
		Classifier: cls,
		Log:        log,
	}, nil
}
