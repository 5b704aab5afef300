// Package config loads the service configuration from TOML files, a .env
// file, and STEWARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/provider"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/logging"
	"github.com/JaimeStill/steward/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvStewardEnv             = "STEWARD_ENV"
	EnvStewardShutdownTimeout = "STEWARD_SHUTDOWN_TIMEOUT"
	EnvStewardVersion         = "STEWARD_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "STEWARD_DATABASE_URL",
	Host:            "STEWARD_DB_HOST",
	Port:            "STEWARD_DB_PORT",
	Name:            "STEWARD_DB_NAME",
	User:            "STEWARD_DB_USER",
	Password:        "STEWARD_DB_PASSWORD",
	SSLMode:         "STEWARD_DB_SSL_MODE",
	MaxOpenConns:    "STEWARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "STEWARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "STEWARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "STEWARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "STEWARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "STEWARD_STORAGE_CONNECTION_STRING",
	ServiceURL:       "STEWARD_STORAGE_SERVICE_URL",
	KeyPrefix:        "STEWARD_STORAGE_KEY_PREFIX",
}

var loggingEnv = &logging.Env{
	Level:  "STEWARD_LOG_LEVEL",
	Format: "STEWARD_LOG_FORMAT",
	File:   "STEWARD_LOG_FILE",
}

var providerEnv = &provider.Env{
	Timeout:           "STEWARD_PROVIDER_TIMEOUT",
	RequestsPerSecond: "STEWARD_PROVIDER_RPS",
	Burst:             "STEWARD_PROVIDER_BURST",
}

var extractionEnv = &extraction.Env{
	PDFToText: "STEWARD_EXTRACTION_PDFTOTEXT",
	Timeout:   "STEWARD_EXTRACTION_TIMEOUT",
}

// Config is the root configuration for the Steward service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Logging         logging.Config       `toml:"logging"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Provider        provider.Config      `toml:"provider"`
	Training        TrainingConfig       `toml:"training"`
	Extraction      extraction.Config    `toml:"extraction"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the STEWARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		return env
	}
	return "local"
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads .env (if present) into the process environment without
// overriding variables already set, then the base config (if present),
// applies any environment overlay, and finalizes all values.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase resolves only the database section. One-shot commands such as
// migrate use it so they do not require provider or storage settings.
func LoadDatabase() (*database.Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	db := database.Config{}
	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		db = loaded.Database
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		db.Merge(&overlay.Database)
	}

	if err := db.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &db, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
	c.Agent.Merge(&overlay.Agent)
	c.Provider.Merge(&overlay.Provider)
	c.Training.Merge(&overlay.Training)
	c.Extraction.Merge(&overlay.Extraction)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"logging", func() error { return c.Logging.Finalize(loggingEnv) }},
		{"agent", func() error { return FinalizeAgent(&c.Agent) }},
		{"provider", func() error { return c.Provider.Finalize(providerEnv) }},
		{"training", c.Training.Finalize},
		{"extraction", func() error { return c.Extraction.Finalize(extractionEnv) }},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.Version, "0.1.0")
}

func (c *Config) loadEnv() {
	envString(EnvStewardShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvStewardVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
