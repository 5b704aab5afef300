package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/lifecycle"
)

type httpServer struct {
	srv     *http.Server
	logger  *slog.Logger
	timeout time.Duration
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger, timeout time.Duration) *httpServer {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		IdleTimeout:  cfg.IdleTimeoutDuration(),
	}
	return &httpServer{srv: srv, logger: logger.With("system", "http"), timeout: timeout}
}

// Start listens in the background. Requests share the lifecycle context so
// in-flight pipeline runs observe shutdown; the listener drains once it is
// cancelled.
func (s *httpServer) Start(lc *lifecycle.Coordinator) {
	s.srv.BaseContext = func(_ net.Listener) context.Context { return lc.Context() }

	go func() {
		s.logger.Info("listening", "addr", s.srv.Addr)
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("listener stopped", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("drain failed", "error", err)
			return
		}
		s.logger.Info("drained")
	})
}
