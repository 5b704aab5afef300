package main

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/module"
)

// Server ties the infrastructure, the /api module, and the HTTP listener to
// one lifecycle.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	router.HandleNative("GET /healthz", healthz)
	router.HandleNative("GET /readyz", readyz(infra, cfg.Version))
	router.Mount(apiModule)

	infra.Logger.Info("server initialized", "addr", cfg.Server.Addr(), "version", cfg.Version)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger, cfg.ShutdownTimeoutDuration()),
	}, nil
}

// Start opens the database and storage hooks, begins listening, and logs once
// every startup hook has reported in.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	s.http.Start(s.infra.Lifecycle)

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type readiness struct {
	Status  string     `json:"status"`
	Version string     `json:"version,omitempty"`
	Since   *time.Time `json:"since,omitempty"`
}

func readyz(infra *infrastructure.Infrastructure, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, readiness{Status: "starting"})
			return
		}
		since := infra.Lifecycle.ReadySince()
		handlers.RespondJSON(w, http.StatusOK, readiness{Status: "ready", Version: version, Since: &since})
	}
}
