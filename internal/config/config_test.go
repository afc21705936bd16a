package config

import (
	"testing"
)

// clearEnv blanks every variable Load reads so tests see the defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "HOST", "DUMPS_PATH", "WATCH_DUMPS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Host != "" {
		t.Errorf("Expected empty default host, got %s", cfg.Server.Host)
	}
	if cfg.Dumps.Path != "dumps" {
		t.Errorf("Expected default dumps path, got %s", cfg.Dumps.Path)
	}
	if !cfg.Dumps.Watch {
		t.Error("Expected watching enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("DUMPS_PATH", "/srv/exports")
	t.Setenv("WATCH_DUMPS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.Dumps.Path != "/srv/exports" || cfg.Dumps.Watch {
		t.Errorf("Unexpected dumps config: %+v", cfg.Dumps)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Non-numeric port", "PORT", "http"},
		{"Port out of range", "PORT", "70000"},
		{"Bad watch flag", "WATCH_DUMPS", "maybe"},
		{"Unknown log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "0.0.0.0", Port: "8080"}}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}

	cfg = &Config{Server: ServerConfig{Port: "9000"}}
	if got := cfg.Addr(); got != ":9000" {
		t.Errorf("Addr() = %q, want :9000", got)
	}
}
