package api

import (
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/handlers"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/middleware"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/metrics"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

type RouterConfig struct {
	Env       string
	PublicKey *rsa.PublicKey
	Store     state.RunStore
	DB        handlers.Pinger
	Log       *logrus.Entry
}

// NewRouter wires the health, metrics and sync run endpoints. Only the
// sync run endpoints require an operator token.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/healthz", middleware.MetricsMiddleware{
		Route: "/healthz",
		Next:  handlers.HealthHandler{DB: cfg.DB},
	})
	mux.Handle("/metrics", metrics.Handler())

	runs := middleware.AuthMiddleware{
		Env:       cfg.Env,
		PublicKey: cfg.PublicKey,
		Next: middleware.IdempotencyMiddleware{
			Cache: middleware.NewResponseCache(24 * time.Hour),
			Next:  handlers.SyncRunsHandler{Store: cfg.Store, Log: cfg.Log},
		},
	}

	mux.Handle("/v1/sync/runs", middleware.MetricsMiddleware{Route: "/v1/sync/runs", Next: runs})
	mux.Handle("/v1/sync/runs/", middleware.MetricsMiddleware{Route: "/v1/sync/runs/{run_id}", Next: runs})

	return mux
}
