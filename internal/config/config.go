// Package config loads layered service configuration: built-in defaults,
// then an optional config.yaml, then an optional .env file, then
// PRODUCT_-prefixed environment variables, each layer overriding the last.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PRODUCT_"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Spanner  SpannerConfig  `koanf:"spanner"`
	Log      LogConfig      `koanf:"log"`
	Shutdown ShutdownConfig `koanf:"shutdown"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port    int          `koanf:"port"`
	Timeout HTTPTimeouts `koanf:"timeout"`
}

// HTTPTimeouts are the listener's read/write/idle timeouts.
type HTTPTimeouts struct {
	Read  time.Duration `koanf:"read"`
	Write time.Duration `koanf:"write"`
	Idle  time.Duration `koanf:"idle"`
}

// SpannerConfig points at the backing database.
type SpannerConfig struct {
	// Database is the fully qualified name:
	// projects/<p>/instances/<i>/databases/<d>
	Database string `koanf:"database"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// ShutdownConfig bounds graceful shutdown.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// defaults is the lowest-priority configuration layer.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":          8080,
		"server.timeout.read":  "10s",
		"server.timeout.write": "15s",
		"server.timeout.idle":  "60s",
		"spanner.database":     "projects/test-project/instances/dev-instance/databases/product-store-db",
		"log.level":            "info",
		"log.development":      false,
		"shutdown.timeout":     "10s",
	}
}

// Load builds the configuration from all layers and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config.yaml: %w", err)
	}

	// Optional .env, mapped through the same key transform as real env vars.
	if envFileMap, err := godotenv.Read(".env"); err == nil {
		envMap := make(map[string]interface{}, len(envFileMap))
		for key, value := range envFileMap {
			envMap[envKeyToPath(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKeyToPath maps PRODUCT_SERVER_PORT to server.port.
func envKeyToPath(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
	return strings.ReplaceAll(key, "_", ".")
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Spanner.Database == "" {
		return fmt.Errorf("spanner.database must not be empty")
	}
	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("shutdown.timeout must be positive, got %v", c.Shutdown.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}
