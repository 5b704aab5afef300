package openapi

import "os"

// Config is the document metadata published at /openapi.json.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
}

const (
	defaultTitle       = "Steward API"
	defaultDescription = "Turns church manuals and policy documents into published training modules, " +
		"with quality sweeps and member notifications."
)

// Finalize fills defaults and applies env overrides. It never fails.
func (c *Config) Finalize(env *ConfigEnv) error {
	fields := []struct {
		dst      *string
		fallback string
		env      string
	}{
		{&c.Title, defaultTitle, ""},
		{&c.Description, defaultDescription, ""},
	}
	if env != nil {
		fields[0].env, fields[1].env = env.Title, env.Description
	}

	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.fallback
		}
		if f.env == "" {
			continue
		}
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
	return nil
}

// Merge takes the overlay's non-empty fields.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
