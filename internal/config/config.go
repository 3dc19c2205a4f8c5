package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Admin   AdminConfig   `toml:"admin"`
	Blog    BlogConfig    `toml:"blog"`
}

// AIConfig holds AI provider settings.
type AIConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// CORSOrigins lists browser origins allowed to call the API with the
	// admin cookie. Empty allows any origin without credentials.
	CORSOrigins []string `toml:"cors_origins"`
	// SecureCookies marks the admin cookie HTTPS only.
	SecureCookies bool `toml:"secure_cookies"`
}

// StorageConfig selects and configures the post backend.
type StorageConfig struct {
	Driver        string `toml:"driver"`
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// AdminConfig holds the single admin credential and session settings.
type AdminConfig struct {
	Email           string `toml:"email"`
	Password        string `toml:"password"`
	PasswordHash    string `toml:"password_hash"`
	SessionSecret   string `toml:"session_secret"`
	SessionMaxAgeHr int    `toml:"session_max_age_hours"`
}

// BlogConfig holds listing and presentation settings.
type BlogConfig struct {
	Title            string `toml:"title"`
	Description      string `toml:"description"`
	BaseURL          string `toml:"base_url"`
	PageSize         int    `toml:"page_size"`
	MaxPageSize      int    `toml:"max_page_size"`
	LatestCount      int    `toml:"latest_count"`
	FeedSize         int    `toml:"feed_size"`
	SummaryCacheSize int    `toml:"summary_cache_size"`
}

const defaultConfigContent = `[ai]
provider = "anthropic"            # "anthropic" or "openai"
api_key = ""                      # Your API key (or set AI_API_KEY env var)
model = "claude-haiku-4-5"
base_url = ""                     # Optional override for OpenAI-compatible servers

[server]
host = "localhost"
port = 8080
log_level = "info"                # "debug", "info", "warn" or "error"
cors_origins = []                 # e.g. ["https://blog.example.com"]
secure_cookies = false            # set true when served over HTTPS

[storage]
driver = "sqlite"                 # "sqlite", "mongo" or "memory"
sqlite_path = ""                  # Defaults to <data-dir>/blog.db
mongo_uri = ""                    # Or set MONGODB_URI
mongo_database = "devspace"       # Or set MONGODB_DB

[admin]
email = ""                        # Or set ADMIN_EMAIL
password = ""                     # Or set ADMIN_PASSWORD
password_hash = ""                # bcrypt hash, takes precedence over password
session_secret = ""               # Or set SESSION_SECRET (at least 32 bytes)
session_max_age_hours = 24

[blog]
title = "Blogspot"
description = "Notes, tutorials and stories."
base_url = ""                     # Used for absolute links in feed.xml
page_size = 5
max_page_size = 50
latest_count = 3
feed_size = 20
summary_cache_size = 128
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// writing "page_size = 0" is an error rather than silently being
	// replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	positive := []struct {
		key   string
		value int
	}{
		{"page_size", cfg.Blog.PageSize},
		{"max_page_size", cfg.Blog.MaxPageSize},
		{"latest_count", cfg.Blog.LatestCount},
		{"feed_size", cfg.Blog.FeedSize},
		{"summary_cache_size", cfg.Blog.SummaryCacheSize},
	}
	for _, p := range positive {
		if md.IsDefined("blog", p.key) && p.value < 1 {
			return fmt.Errorf("invalid blog.%s %d: must be >= 1", p.key, p.value)
		}
	}
	if md.IsDefined("admin", "session_max_age_hours") && cfg.Admin.SessionMaxAgeHr < 1 {
		return fmt.Errorf("invalid admin.session_max_age_hours %d: must be >= 1", cfg.Admin.SessionMaxAgeHr)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "anthropic"
	}
	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.Model = "gpt-4o-mini"
		default:
			cfg.AI.Model = "claude-haiku-4-5"
		}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.MongoDatabase == "" {
		cfg.Storage.MongoDatabase = "devspace"
	}
	if cfg.Admin.SessionMaxAgeHr == 0 {
		cfg.Admin.SessionMaxAgeHr = 24
	}
	if cfg.Blog.Title == "" {
		cfg.Blog.Title = "Blogspot"
	}
	if cfg.Blog.Description == "" {
		cfg.Blog.Description = "Notes, tutorials and stories."
	}
	if cfg.Blog.PageSize == 0 {
		cfg.Blog.PageSize = 5
	}
	if cfg.Blog.MaxPageSize == 0 {
		cfg.Blog.MaxPageSize = 50
	}
	if cfg.Blog.LatestCount == 0 {
		cfg.Blog.LatestCount = 3
	}
	if cfg.Blog.FeedSize == 0 {
		cfg.Blog.FeedSize = 20
	}
	if cfg.Blog.SummaryCacheSize == 0 {
		cfg.Blog.SummaryCacheSize = 128
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. ANTHROPIC_API_KEY (when provider is "anthropic")
//  3. OPENAI_API_KEY (when provider is "openai")
func applyEnvOverrides(cfg *Config) {
	switch cfg.AI.Provider {
	case "anthropic":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"MONGODB_URI", &cfg.Storage.MongoURI},
		{"MONGODB_DB", &cfg.Storage.MongoDatabase},
		{"ADMIN_EMAIL", &cfg.Admin.Email},
		{"ADMIN_PASSWORD", &cfg.Admin.Password},
		{"ADMIN_PASSWORD_HASH", &cfg.Admin.PasswordHash},
		{"SESSION_SECRET", &cfg.Admin.SessionSecret},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// MinSessionSecretLength is the shortest accepted admin.session_secret.
const MinSessionSecretLength = 32

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("invalid ai.provider %q: must be \"anthropic\" or \"openai\"", cfg.AI.Provider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if _, err := ParseLogLevel(cfg.Server.LogLevel); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case "sqlite", "memory":
	case "mongo":
		if cfg.Storage.MongoURI == "" {
			return errors.New("storage.mongo_uri is required when storage.driver is \"mongo\" (or set MONGODB_URI)")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q: must be \"sqlite\", \"mongo\" or \"memory\"", cfg.Storage.Driver)
	}

	if cfg.Blog.MaxPageSize < cfg.Blog.PageSize {
		return fmt.Errorf("invalid blog.max_page_size %d: must be >= page_size %d", cfg.Blog.MaxPageSize, cfg.Blog.PageSize)
	}

	if s := cfg.Admin.SessionSecret; s != "" && len(s) < MinSessionSecretLength {
		return fmt.Errorf("invalid admin.session_secret: must be at least %d bytes", MinSessionSecretLength)
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}
	if !cfg.Admin.HasCredential() {
		slog.Warn("admin credential not configured: the dashboard API will reject every login")
	}

	return nil
}

// HasCredential reports whether an admin login is possible.
func (a AdminConfig) HasCredential() bool {
	return a.Email != "" && (a.Password != "" || a.PasswordHash != "")
}

// ParseLogLevel maps a server.log_level value to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid server.log_level %q: must be debug, info, warn or error", level)
	}
}
