package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  *Default(),
		},
		{
			name:    "port zero",
			cfg:     Config{Server: ServerConfig{Host: "0.0.0.0", Port: 0}, Logging: LoggingConfig{Level: "info", Format: "text"}},
			wantErr: true,
		},
		{
			name:    "port too large",
			cfg:     Config{Server: ServerConfig{Host: "0.0.0.0", Port: 70000}, Logging: LoggingConfig{Level: "info", Format: "text"}},
			wantErr: true,
		},
		{
			name:    "empty host",
			cfg:     Config{Server: ServerConfig{Host: "", Port: 50051}, Logging: LoggingConfig{Level: "info", Format: "text"}},
			wantErr: true,
		},
		{
			name:    "bad log level",
			cfg:     Config{Server: ServerConfig{Host: "0.0.0.0", Port: 50051}, Logging: LoggingConfig{Level: "verbose", Format: "text"}},
			wantErr: true,
		},
		{
			name:    "bad log format",
			cfg:     Config{Server: ServerConfig{Host: "0.0.0.0", Port: 50051}, Logging: LoggingConfig{Level: "info", Format: "xml"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 9090\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0 (unset in file)", cfg.Server.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want default text (unset in file)", cfg.Logging.Format)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Error("expected an error loading a nonexistent config file")
	}
}
