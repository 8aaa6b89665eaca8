package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ROOT_DIR", "SESSION_TTL_HOURS", "USE_LOCAL_STORAGE",
		"SECURE_COOKIES", "DATABASE_URL", "ADMIN_PASSWORD",
		"ADMIN_PASSWORD_HASH", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("expected 24h default session window, got %v", cfg.SessionTTL())
	}
	if cfg.PasswordLength != 6 {
		t.Errorf("expected 6-digit default passwords, got %d", cfg.PasswordLength)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
session_ttl_hours: 12
allowed_origins:
  - https://workshop.example.com
secure_cookies: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Env beats file.
	t.Setenv("PORT", "9999")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected env PORT to win, got %q", cfg.Port)
	}
	if cfg.SessionTTL() != 12*time.Hour {
		t.Errorf("expected 12h window from file, got %v", cfg.SessionTTL())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://workshop.example.com" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.SecureCookies {
		t.Error("expected secure cookies from file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_RequiresAdminSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation to fail without an admin secret")
	}

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$fakehash")
	cfg, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("hash alone should satisfy validation, got %v", err)
	}
}
