package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/brook-ui/brook/pkg/stream"
)

// Config holds configuration for the page server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// ReadHeaderTimeout is the maximum time to read request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum time to read the whole request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Chunking configures the chunk scheduler shared by all pages.
	// Zero fields take the stream package defaults.
	Chunking stream.Config

	// ClientScript is the client runtime path injected into hydrating
	// pages that did not set one. Default: "/_brook/client.js".
	ClientScript string

	// Logger is the structured logger. Default: a disabled logger.
	Logger *zerolog.Logger

	// MetricsRegistry receives the server's render metrics.
	// Default: prometheus.DefaultRegisterer.
	MetricsRegistry prometheus.Registerer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ClientScript:      "/_brook/client.js",
		MetricsRegistry:   prometheus.DefaultRegisterer,
	}
}

// withDefaults fills in defaults for any unset fields.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.ClientScript == "" {
		c.ClientScript = defaults.ClientScript
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.MetricsRegistry == nil {
		c.MetricsRegistry = defaults.MetricsRegistry
	}
	return c
}
