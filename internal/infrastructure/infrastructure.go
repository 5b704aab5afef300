// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, provider) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/provider"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/logging"
	"github.com/JaimeStill/steward/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Provider  provider.Client

	logCloser io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New(ctx)
	logger, closer := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	client, err := provider.New(&cfg.Agent, &cfg.Provider, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("provider init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Provider:  client,
		logCloser: closer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The log file, if any, is closed after the other shutdown hooks are registered.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.logCloser.Close(); err != nil {
			i.Logger.Error("log file close failed", "error", err)
		}
	})
	return nil
}

// Close releases the resources held by one-shot commands that never call Start.
func (i *Infrastructure) Close() error {
	dbErr := i.Database.Close()
	logErr := i.logCloser.Close()
	if dbErr != nil {
		return dbErr
	}
	return logErr
}
