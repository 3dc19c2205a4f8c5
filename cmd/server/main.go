package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/codedbysoumyajit/Blogspot/internal/ai"
	"github.com/codedbysoumyajit/Blogspot/internal/api"
	"github.com/codedbysoumyajit/Blogspot/internal/auth"
	"github.com/codedbysoumyajit/Blogspot/internal/config"
	"github.com/codedbysoumyajit/Blogspot/internal/feeds"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dataDir := flag.String("data-dir", "./data", "path to data directory")
	flag.Parse()

	if err := run(*configPath, *dataDir); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath, dataDir string) error {
	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := config.ParseLogLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlitePath := cfg.Storage.SQLitePath
	if cfg.Storage.Driver == storage.DriverSQLite && sqlitePath == "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		sqlitePath = filepath.Join(dataDir, "blog.db")
	}

	posts, closeStore, err := storage.Open(ctx, storage.OpenOptions{
		Driver:        cfg.Storage.Driver,
		SQLitePath:    sqlitePath,
		MongoURI:      cfg.Storage.MongoURI,
		MongoDatabase: cfg.Storage.MongoDatabase,
	})
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()
	slog.Info("storage ready", "driver", cfg.Storage.Driver)

	// The AI provider stays nil without a key; handlers answer 503.
	var provider ai.AIProvider
	p, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		slog.Warn("no AI provider API key configured, AI features will be disabled")
	case err != nil:
		return fmt.Errorf("creating AI provider: %w", err)
	default:
		provider = p
		slog.Info("AI provider configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	}

	cache, err := ai.NewSummaryCache(cfg.Blog.SummaryCacheSize)
	if err != nil {
		return fmt.Errorf("creating summary cache: %w", err)
	}

	sessions, err := auth.NewManager(auth.Options{
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       cfg.Admin.SessionSecret,
		MaxAge:       time.Duration(cfg.Admin.SessionMaxAgeHr) * time.Hour,
		Secure:       cfg.Server.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Posts:    posts,
		AI:       provider,
		Cache:    cache,
		Importer: feeds.NewImporter(),
		Sessions: sessions,
	}, cfg.Server, cfg.Blog)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// AI and import requests wait on upstream calls.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
