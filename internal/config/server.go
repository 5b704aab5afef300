package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ServerConfig is the HTTP listener. WriteTimeout is long by default because
// pipeline requests hold the connection while the provider generates.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	IdleTimeout  string `toml:"idle_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration  { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration  { return duration(c.IdleTimeout) }

func (c *ServerConfig) Finalize() error {
	defaultString(&c.Host, "0.0.0.0")
	defaultInt(&c.Port, 8080)
	defaultString(&c.ReadTimeout, "1m")
	defaultString(&c.WriteTimeout, "30m")
	defaultString(&c.IdleTimeout, "2m")

	envString("STEWARD_SERVER_HOST", &c.Host)
	envInt("STEWARD_SERVER_PORT", &c.Port)
	envString("STEWARD_SERVER_READ_TIMEOUT", &c.ReadTimeout)
	envString("STEWARD_SERVER_WRITE_TIMEOUT", &c.WriteTimeout)
	envString("STEWARD_SERVER_IDLE_TIMEOUT", &c.IdleTimeout)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, t := range []struct{ name, value string }{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
	} {
		if _, err := time.ParseDuration(t.value); err != nil {
			return fmt.Errorf("invalid %s: %w", t.name, err)
		}
	}
	return nil
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeInt(&c.Port, overlay.Port)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.IdleTimeout, overlay.IdleTimeout)
}

// duration parses a value Finalize has already validated.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
