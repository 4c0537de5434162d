package main

import (
	"context"
	"crypto/rsa"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/auth"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/handlers"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/bootstrap"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/config"
)

func main() {
	cfg := config.Load()
	logger := bootstrap.Logger("api", cfg)

	logger.WithFields(logrus.Fields{
		"env":           cfg.Env,
		"state_backend": cfg.StateBackend,
		"dsn_set":       cfg.DSN != "",
	}).Info("config loaded")

	fr, err := bootstrap.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}

	var pub *rsa.PublicKey
	if strings.TrimSpace(cfg.JWTPublicKeyPEM) != "" {
		pub, err = auth.ParseRSAPublicKey(cfg.JWTPublicKeyPEM)
		if err != nil {
			logger.WithError(err).Fatal("jwt public key")
		}
	} else if !strings.EqualFold(cfg.Env, "dev") {
		logger.Fatal("JWT_PUBLIC_KEY_PEM is required outside dev")
	}

	var pinger handlers.Pinger
	if fr.DB != nil {
		pinger = fr.DB
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.RouterConfig{
			Env:       cfg.Env,
			PublicKey: pub,
			Store:     fr.Store,
			DB:        pinger,
			Log:       logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("starting (env=%s) on %s", cfg.Env, server.Addr)

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	waitForShutdown(logger, server)
	if fr.DB != nil {
		_ = fr.DB.Close()
	}
}

func waitForShutdown(logger *logrus.Entry, server *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = server.Shutdown(ctx)
	logger.Info("shutdown complete")
}
