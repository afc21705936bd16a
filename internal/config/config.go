package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Dumps   DumpsConfig
	Logging LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
}

// DumpsConfig holds export-directory configuration
type DumpsConfig struct {
	// Path is the export root: per-channel JSON files live directly in it
	// or in one level of date-range subfolders.
	Path string

	// Watch enables the fsnotify watcher that reloads the archive when
	// files under Path change.
	Watch bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	watch, err := strconv.ParseBool(getEnv("WATCH_DUMPS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_DUMPS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", ""),
		},
		Dumps: DumpsConfig{
			Path:  getEnv("DUMPS_PATH", "dumps"),
			Watch: watch,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate server port
	if c.Server.Port != "" {
		port, err := strconv.Atoi(c.Server.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %s", c.Server.Port)
		}
	}

	if c.Dumps.Path == "" {
		return fmt.Errorf("DUMPS_PATH is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	return nil
}

// Addr returns the listen address in "host:port" form
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
