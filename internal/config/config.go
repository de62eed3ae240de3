// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; secrets (API key overrides, OAuth
// client secret, redis password) are expected from the environment or a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "fashionstore/cli/internal/errors"
	"fashionstore/cli/internal/xdg"
)

// FileName is the config file name inside the XDG config dir.
const FileName = "config.yaml"

// Session backends.
const (
	SessionKeychain = "keychain"
	SessionFile     = "file"
	SessionRedis    = "redis"
)

// Config holds CLI settings.
type Config struct {
	LogLevel string         `yaml:"log_level" env:"FASHIONSTORE_LOG_LEVEL"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Google   GoogleConfig   `yaml:"google"`
	Backend  BackendConfig  `yaml:"backend"`
	App      AppConfig      `yaml:"app"`
	Session  SessionConfig  `yaml:"session"`
}

// FirebaseConfig identifies the Firebase project used for sign-in.
type FirebaseConfig struct {
	APIKey     string `yaml:"api_key,omitempty" env:"FASHIONSTORE_FIREBASE_API_KEY"`
	AuthDomain string `yaml:"auth_domain" env:"FASHIONSTORE_FIREBASE_AUTH_DOMAIN"`
	ProjectID  string `yaml:"project_id,omitempty" env:"FASHIONSTORE_FIREBASE_PROJECT_ID"`
	// IdentityURL and TokenURL point at the emulator when set.
	IdentityURL string `yaml:"identity_url,omitempty" env:"FASHIONSTORE_FIREBASE_IDENTITY_URL"`
	TokenURL    string `yaml:"token_url,omitempty" env:"FASHIONSTORE_FIREBASE_TOKEN_URL"`
}

// GoogleConfig is the desktop OAuth client used for Google sign-in.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id" env:"FASHIONSTORE_GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"-" env:"FASHIONSTORE_GOOGLE_CLIENT_SECRET"`
}

// BackendConfig locates the application API.
type BackendConfig struct {
	URL string `yaml:"url" env:"FASHIONSTORE_BACKEND_URL"`
}

// AppConfig locates the web storefront that navigation targets.
type AppConfig struct {
	URL         string `yaml:"url" env:"FASHIONSTORE_APP_URL"`
	OpenBrowser bool   `yaml:"open_browser" env:"FASHIONSTORE_OPEN_BROWSER"`
}

// SessionConfig selects where authToken and userId are kept.
type SessionConfig struct {
	Backend       string `yaml:"backend" env:"FASHIONSTORE_SESSION_BACKEND"`
	FileDir       string `yaml:"file_dir,omitempty" env:"FASHIONSTORE_SESSION_FILE_DIR"`
	FilePassword  string `yaml:"-" env:"FASHIONSTORE_SESSION_FILE_PASSWORD"`
	RedisAddr     string `yaml:"redis_addr,omitempty" env:"FASHIONSTORE_REDIS_ADDR"`
	RedisPassword string `yaml:"-" env:"FASHIONSTORE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db,omitempty" env:"FASHIONSTORE_REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix,omitempty" env:"FASHIONSTORE_REDIS_PREFIX"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel: "warn",
		Backend:  BackendConfig{URL: "http://localhost:8080/api"},
		App:      AppConfig{URL: "http://localhost:3000", OpenBrowser: true},
		Session:  SessionConfig{Backend: SessionKeychain, RedisPrefix: "fashionstore"},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration from the default path; see LoadFrom.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(p)
}

// LoadFrom applies defaults, then the YAML file at p (a missing file is fine), then
// a .env file in the working directory, then FASHIONSTORE_* environment variables.
func LoadFrom(p string) (Config, error) {
	c := Defaults()

	data, err := os.ReadFile(p)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing config file %s: %w", p, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return c, fmt.Errorf("reading config file %s: %w", p, err)
	}

	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("loading .env: %w", err)
	}
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// Validate checks that the configuration can produce an identity provider.
// An empty API key is accepted when an auth domain is set, since the key can
// then be resolved from the hosting manifest.
func (c Config) Validate() error {
	if c.Firebase.APIKey == "" && c.Firebase.AuthDomain == "" {
		return apperrors.New(apperrors.ConfigInvalid,
			"firebase api_key or auth_domain is required (set FASHIONSTORE_FIREBASE_API_KEY or run `fashionstore config init`)")
	}
	switch c.Session.Backend {
	case SessionKeychain, SessionFile:
	case SessionRedis:
		if c.Session.RedisAddr == "" {
			return apperrors.New(apperrors.ConfigInvalid, "session backend redis requires redis_addr")
		}
	default:
		return apperrors.New(apperrors.ConfigInvalid,
			fmt.Sprintf("unknown session backend %q (want %s)", c.Session.Backend,
				strings.Join([]string{SessionKeychain, SessionFile, SessionRedis}, ", ")))
	}
	return nil
}

// Save writes configuration to the default path; see SaveTo.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(p, c)
}

// SaveTo writes configuration with 0600 permissions.
func SaveTo(p string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
