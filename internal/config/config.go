// Package config loads configuration for the brook CLI using Viper:
// a brook.yaml file, BROOK_-prefixed environment variables, and defaults,
// in ascending precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
	Dev    DevConfig    `mapstructure:"dev"`
	Export ExportConfig `mapstructure:"export"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address joins host and port for net/http.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RenderConfig struct {
	TargetChunkBytes int           `mapstructure:"target_chunk_bytes"`
	MaxLatency       time.Duration `mapstructure:"max_latency"`
	Hydration        bool          `mapstructure:"hydration"`
	ClientScript     string        `mapstructure:"client_script"`
}

type DevConfig struct {
	Watch    []string      `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

type ExportConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from the given file (or brook.yaml in the
// working directory when path is empty) plus BROOK_ environment
// variables. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("render.target_chunk_bytes", 4096)
	v.SetDefault("render.max_latency", 50*time.Millisecond)
	v.SetDefault("render.hydration", true)
	v.SetDefault("render.client_script", "/_brook/client.js")
	v.SetDefault("dev.watch", []string{"."})
	v.SetDefault("dev.debounce", 100*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("brook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BROOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the CLI cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Render.TargetChunkBytes < 1 {
		return fmt.Errorf("config: render.target_chunk_bytes must be positive")
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}
