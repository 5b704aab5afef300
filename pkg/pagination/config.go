// Package pagination holds page request parsing and page result shaping for
// list endpoints.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds page sizes for list endpoints.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize fills defaults of 20 and 100, applies env overrides, and requires
// 1 <= DefaultPageSize <= MaxPageSize.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}

	if env != nil {
		envPositive(env.DefaultPageSize, &c.DefaultPageSize)
		envPositive(env.MaxPageSize, &c.MaxPageSize)
	}

	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size (%d) cannot exceed max_page_size (%d)", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

// Merge takes the overlay's non-zero sizes.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
}

// envPositive applies a positive integer from the named variable. Zero,
// negative, and malformed values are ignored.
func envPositive(name string, dst *int) {
	if name == "" {
		return
	}
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil && n > 0 {
		*dst = n
	}
}
