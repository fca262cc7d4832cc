// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves channel resolution over HTTP. The indexes behind the
// resolver are built once at startup and never change while serving.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ManuGH/tvgmatch/internal/api/middleware"
	"github.com/ManuGH/tvgmatch/internal/config"
	xglog "github.com/ManuGH/tvgmatch/internal/log"
	"github.com/ManuGH/tvgmatch/internal/resolver"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server is the read-only resolve service.
type Server struct {
	resolver *resolver.Resolver
	cfg      config.ServerConfig
	workers  int
	version  string
	started  time.Time
	router   chi.Router
}

// New returns a Server resolving with r.
func New(r *resolver.Resolver, cfg config.AppConfig) *Server {
	s := &Server{
		resolver: r,
		cfg:      cfg.Server,
		workers:  cfg.Workers,
		version:  cfg.Version,
		started:  time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics: true,
		EnableLogging: true,
		RateLimit:     s.cfg.RateLimit,
		RateWindow:    s.cfg.RateWindow,
	})
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/resolve", s.handleResolveOne)
		r.Post("/resolve", s.handleResolveMany)
	})
	return r
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "api")
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout / 2,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.cfg.ListenAddr).Msg("API server listening (HTTP)")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server (HTTP): %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error().Err(err).Str(xglog.FieldEvent, "api.server.failed").Msg("API server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown API server: %w", err)
	}
	return nil
}
