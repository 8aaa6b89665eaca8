package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds everything the server needs at startup. Non-secret knobs live in
// an optional YAML file; secrets (database DSN, admin password, OpenAI key) are
// env-only and never written to disk.
type Config struct {
	Port    string `yaml:"port"`
	RootDir string `yaml:"root_dir"`

	// SessionTTLHours is the fixed session window from creation. Deployments
	// have run both 12h and 24h.
	SessionTTLHours int `yaml:"session_ttl_hours"`

	// PasswordLength is the number of digits in a generated workshop password.
	PasswordLength int `yaml:"password_length"`

	// AllowedOrigins is the CORS allow-list for the hosted front ends.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// UseLocalStorage tells the front end to keep records in the browser
	// instead of posting them here. Exposed verbatim at /api/storage-mode.
	UseLocalStorage bool `yaml:"use_local_storage"`

	// SecureCookies switches the session cookie to Secure + SameSite=None for
	// cross-site deployments. Leave false for local HTTP development.
	SecureCookies bool `yaml:"secure_cookies"`

	OpenAIModel string `yaml:"openai_model"`

	// Env-only secrets.
	DatabaseURL       string `yaml:"-"`
	AdminPassword     string `yaml:"-"`
	AdminPasswordHash string `yaml:"-"`
	OpenAIKey         string `yaml:"-"`
}

var ErrMissingAdminSecret = errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")

// Load reads the YAML file at path (missing file is fine, defaults apply) and
// then applies environment overrides on top.
//
// Environment variables:
//   - PORT, ROOT_DIR, SESSION_TTL_HOURS, USE_LOCAL_STORAGE, SECURE_COOKIES
//   - DATABASE_URL (required)
//   - ADMIN_PASSWORD or ADMIN_PASSWORD_HASH (bcrypt; the hash wins if both set)
//   - OPENAI_API_KEY
func Load(path string) (Config, error) {
	cfg := Config{
		Port:            "3000",
		RootDir:         ".",
		SessionTTLHours: 24,
		PasswordLength:  6,
		UseLocalStorage: false,
		SecureCookies:   false,
		OpenAIModel:     "gpt-4o",
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ROOT_DIR"); v != "" {
		cfg.RootDir = v
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS: %w", err)
		}
		cfg.SessionTTLHours = hours
	}
	if v := os.Getenv("USE_LOCAL_STORAGE"); v != "" {
		cfg.UseLocalStorage = parseBool(v)
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.SecureCookies = parseBool(v)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	return cfg, nil
}

// Validate checks that the configuration can actually run a server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return ErrMissingAdminSecret
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("session_ttl_hours must be positive")
	}
	if c.PasswordLength < 4 {
		return errors.New("password_length must be at least 4")
	}
	return nil
}

// SessionTTL returns the session window as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
