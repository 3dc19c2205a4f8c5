package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig is a helper that writes a TOML config file to a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
[ai]
provider = "openai"
api_key = "sk-test-key-123"
model = "gpt-4o"
base_url = "http://localhost:11434/v1"

[server]
host = "0.0.0.0"
port = 9090
log_level = "debug"

[storage]
driver = "mongo"
mongo_uri = "mongodb://localhost:27017"
mongo_database = "blog"

[admin]
email = "admin@example.com"
password = "hunter2"
session_secret = "0123456789abcdef0123456789abcdef"

[blog]
title = "My Notes"
base_url = "https://notes.example.com"
page_size = 10
latest_count = 4
feed_size = 15
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// AI config
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want %q", cfg.AI.Provider, "openai")
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "gpt-4o")
	}
	if cfg.AI.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}

	// Server config
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("Server = %s:%d, want 0.0.0.0:9090", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("Server.LogLevel = %q, want %q", cfg.Server.LogLevel, "debug")
	}

	// Storage config
	if cfg.Storage.Driver != "mongo" {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, "mongo")
	}
	if cfg.Storage.MongoDatabase != "blog" {
		t.Errorf("Storage.MongoDatabase = %q, want %q", cfg.Storage.MongoDatabase, "blog")
	}

	// Admin config
	if !cfg.Admin.HasCredential() {
		t.Error("Admin.HasCredential() = false, want true")
	}

	// Blog config
	if cfg.Blog.Title != "My Notes" {
		t.Errorf("Blog.Title = %q, want %q", cfg.Blog.Title, "My Notes")
	}
	if cfg.Blog.PageSize != 10 || cfg.Blog.LatestCount != 4 || cfg.Blog.FeedSize != 15 {
		t.Errorf("Blog sizes = %d/%d/%d, want 10/4/15", cfg.Blog.PageSize, cfg.Blog.LatestCount, cfg.Blog.FeedSize)
	}
	if cfg.Blog.MaxPageSize != 50 {
		t.Errorf("Blog.MaxPageSize = %d, want default 50", cfg.Blog.MaxPageSize)
	}
}

func TestLoad_MissingFile_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file was not created at %q: %v", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading created config: %v", err)
	}
	for _, section := range []string{"[ai]", "[server]", "[storage]", "[admin]", "[blog]"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("default config missing section %s", section)
		}
	}

	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, "sqlite")
	}
	if cfg.Blog.PageSize != 5 {
		t.Errorf("Blog.PageSize = %d, want %d", cfg.Blog.PageSize, 5)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTestConfig(t, "[ai]\napi_key = \"sk-test\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"AI.Provider", cfg.AI.Provider, "anthropic"},
		{"AI.Model", cfg.AI.Model, "claude-haiku-4-5"},
		{"Server.Host", cfg.Server.Host, "localhost"},
		{"Server.Port", cfg.Server.Port, 8080},
		{"Server.LogLevel", cfg.Server.LogLevel, "info"},
		{"Storage.Driver", cfg.Storage.Driver, "sqlite"},
		{"Storage.MongoDatabase", cfg.Storage.MongoDatabase, "devspace"},
		{"Admin.SessionMaxAgeHr", cfg.Admin.SessionMaxAgeHr, 24},
		{"Blog.Title", cfg.Blog.Title, "Blogspot"},
		{"Blog.PageSize", cfg.Blog.PageSize, 5},
		{"Blog.MaxPageSize", cfg.Blog.MaxPageSize, 50},
		{"Blog.LatestCount", cfg.Blog.LatestCount, 3},
		{"Blog.FeedSize", cfg.Blog.FeedSize, 20},
		{"Blog.SummaryCacheSize", cfg.Blog.SummaryCacheSize, 128},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_OpenAIDefaultModel(t *testing.T) {
	path := writeTestConfig(t, "[ai]\nprovider = \"openai\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "gpt-4o-mini")
	}
}

func TestLoad_EnvVar_AIAPIKey(t *testing.T) {
	content := `
[ai]
provider = "anthropic"
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("AI_API_KEY", "from-env-generic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-generic" {
		t.Errorf("AI.APIKey = %q, want %q (AI_API_KEY should override config)", cfg.AI.APIKey, "from-env-generic")
	}
}

func TestLoad_EnvVar_ProviderAPIKey(t *testing.T) {
	tests := []struct {
		provider string
		env      string
	}{
		{provider: "anthropic", env: "ANTHROPIC_API_KEY"},
		{provider: "openai", env: "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			path := writeTestConfig(t, "[ai]\nprovider = \""+tt.provider+"\"\napi_key = \"from-config\"\n")
			t.Setenv("AI_API_KEY", "")
			t.Setenv(tt.env, "from-env")

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", path, err)
			}
			if cfg.AI.APIKey != "from-env" {
				t.Errorf("AI.APIKey = %q, want %q (%s should override for %s provider)", cfg.AI.APIKey, "from-env", tt.env, tt.provider)
			}
		})
	}
}

func TestLoad_EnvVar_AIAPIKey_TakesPrecedence(t *testing.T) {
	path := writeTestConfig(t, "[ai]\nprovider = \"anthropic\"\napi_key = \"from-config\"\n")
	t.Setenv("ANTHROPIC_API_KEY", "from-env-anthropic")
	t.Setenv("AI_API_KEY", "from-env-generic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-generic" {
		t.Errorf("AI.APIKey = %q, want %q (AI_API_KEY should take precedence over ANTHROPIC_API_KEY)", cfg.AI.APIKey, "from-env-generic")
	}
}

func TestLoad_EnvVar_StorageAndAdmin(t *testing.T) {
	content := `
[storage]
driver = "mongo"
mongo_uri = "mongodb://from-config"

[admin]
email = "config@example.com"
`
	path := writeTestConfig(t, content)
	t.Setenv("MONGODB_URI", "mongodb://from-env")
	t.Setenv("MONGODB_DB", "envdb")
	t.Setenv("ADMIN_EMAIL", "env@example.com")
	t.Setenv("ADMIN_PASSWORD", "env-password")
	t.Setenv("SESSION_SECRET", strings.Repeat("s", MinSessionSecretLength))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.Storage.MongoURI != "mongodb://from-env" {
		t.Errorf("Storage.MongoURI = %q, want env value", cfg.Storage.MongoURI)
	}
	if cfg.Storage.MongoDatabase != "envdb" {
		t.Errorf("Storage.MongoDatabase = %q, want %q", cfg.Storage.MongoDatabase, "envdb")
	}
	if cfg.Admin.Email != "env@example.com" || cfg.Admin.Password != "env-password" {
		t.Errorf("Admin = %q/%q, want env values", cfg.Admin.Email, cfg.Admin.Password)
	}
	if cfg.Admin.SessionSecret != strings.Repeat("s", MinSessionSecretLength) {
		t.Errorf("Admin.SessionSecret not taken from SESSION_SECRET")
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "unknown provider", provider: "gemini"},
		{name: "typo", provider: "anth ropic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, "[ai]\nprovider = \""+tt.provider+"\"\n")

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error for provider %q, got nil", path, tt.provider)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port zero", content: "[server]\nport = 0\n"},
		{name: "port negative", content: "[server]\nport = -1\n"},
		{name: "port too high", content: "[server]\nport = 70000\n"},
		{name: "bad log level", content: "[server]\nlog_level = \"verbose\"\n"},
		{name: "unknown driver", content: "[storage]\ndriver = \"postgres\"\n"},
		{name: "page size zero", content: "[blog]\npage_size = 0\n"},
		{name: "feed size negative", content: "[blog]\nfeed_size = -3\n"},
		{name: "max below page size", content: "[blog]\npage_size = 20\nmax_page_size = 10\n"},
		{name: "short session secret", content: "[admin]\nsession_secret = \"short\"\n"},
		{name: "session age zero", content: "[admin]\nsession_max_age_hours = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.content)
			t.Setenv("SESSION_SECRET", "")

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error, got nil", path)
			}
		})
	}
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	path := writeTestConfig(t, "[storage]\ndriver = \"mongo\"\n")
	t.Setenv("MONGODB_URI", "")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "mongo_uri") {
		t.Fatalf("Load() error = %v, want mongo_uri error", err)
	}
}

func TestLoad_EmptyAPIKey_NoError(t *testing.T) {
	path := writeTestConfig(t, "[ai]\nprovider = \"anthropic\"\napi_key = \"\"\n")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v (empty api_key should warn, not fail)", path, err)
	}

	if cfg.AI.APIKey != "" {
		t.Errorf("AI.APIKey = %q, want empty string", cfg.AI.APIKey)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAdminConfig_HasCredential(t *testing.T) {
	tests := []struct {
		name  string
		admin AdminConfig
		want  bool
	}{
		{name: "empty", admin: AdminConfig{}, want: false},
		{name: "email only", admin: AdminConfig{Email: "a@b.c"}, want: false},
		{name: "password", admin: AdminConfig{Email: "a@b.c", Password: "x"}, want: true},
		{name: "hash", admin: AdminConfig{Email: "a@b.c", PasswordHash: "$2a$10$abc"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.admin.HasCredential(); got != tt.want {
				t.Errorf("HasCredential() = %v, want %v", got, tt.want)
			}
		})
	}
}
