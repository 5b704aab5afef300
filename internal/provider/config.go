package provider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config bounds calls to the model. Model selection and credentials live in
// the agent config.
type Config struct {
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Timeout           string
	RequestsPerSecond string
	Burst             string
}

func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults of 2m, 2 rps and a burst of 3, then env
// overrides, then validation.
func (c *Config) Finalize(env *Env) error {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 2
	}
	if c.Burst == 0 {
		c.Burst = 3
	}

	if env != nil {
		if v := os.Getenv(env.Timeout); env.Timeout != "" && v != "" {
			c.Timeout = v
		}
		if rps, err := strconv.ParseFloat(os.Getenv(env.RequestsPerSecond), 64); env.RequestsPerSecond != "" && err == nil {
			c.RequestsPerSecond = rps
		}
		if n, err := strconv.Atoi(os.Getenv(env.Burst)); env.Burst != "" && err == nil {
			c.Burst = n
		}
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative")
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be positive")
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}
