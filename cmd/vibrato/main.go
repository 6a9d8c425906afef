// Package main is the entry point for the Vibrato page builder server.
// It loads configuration, connects to services, boots the theme, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibrato/internal/cache"
	"vibrato/internal/config"
	"vibrato/internal/database"
	"vibrato/internal/engine"
	"vibrato/internal/handlers"
	"vibrato/internal/models"
	"vibrato/internal/pagebuilder"
	"vibrato/internal/render"
	"vibrato/internal/router"
	"vibrato/internal/storage"
	"vibrato/internal/store"
	"vibrato/internal/theme"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()

	level := slog.LevelInfo
	if err == nil && cfg.IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// The embedded schema is parsed once up front so a broken schema
	// fails the boot rather than the first request.
	schema := pagebuilder.DefaultSchema()

	// Initialize data stores.
	pageStore := store.NewPageStore(db)
	builderStore := store.NewBuilderStore(db)
	mediaStore := store.NewMediaStore(db)
	variantStore := store.NewVariantStore(db)
	optionStore := store.NewOptionStore(db)

	th, err := bootTheme(cfg, optionStore)
	if err != nil {
		slog.Error("failed to boot theme", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(th)
	if err != nil {
		slog.Error("failed to initialize view renderer", "error", err)
		os.Exit(1)
	}

	// The engine renders builder trees; media resolution is wired only
	// when object storage is configured.
	eng := engine.New(nil)

	// Connect to S3-compatible object storage (optional; app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var objects handlers.ObjectStorage
	if storageClient != nil {
		objects = storageClient
		eng.SetMediaDeps(mediaStore, variantStore, storageClient)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured; media uploads disabled, images use their stored URLs")
	}

	// Initialize the L2 page cache (full-page HTML in Valkey). Pages
	// rendered by a previous process may predate a schema or theme change.
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
	pageCache.InvalidateAll(context.Background())

	if cfg.APIToken == "" {
		slog.Warn("API_TOKEN not set; builder API disabled")
	}

	r, limiter := router.New(router.Config{
		Public:       handlers.NewPublic(pageStore, optionStore, builderStore, eng, renderer, pageCache),
		Builder:      handlers.NewBuilder(schema, pageStore, builderStore, eng, pageCache),
		Media:        handlers.NewMedia(mediaStore, variantStore, objects, eng, pageCache),
		APIToken:     cfg.APIToken,
		APIRateLimit: cfg.APIRateLimit,
	})
	defer limiter.Stop()

	// Create the HTTP server with sensible timeouts. Uploads of up to
	// 50 MB need a generous read timeout.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// bootTheme builds the theme once for the life of the process. The YAML
// file named by THEME_CONFIG supplies menus and the logo; the site_name
// option, then SITE_NAME, then the file decide the site name.
func bootTheme(cfg *config.Config, options *store.OptionStore) (*theme.Theme, error) {
	var tc theme.Config
	if cfg.ThemeConfig != "" {
		loaded, err := theme.LoadConfig(cfg.ThemeConfig)
		if err != nil {
			return nil, err
		}
		tc = loaded
	}
	if tc.AssetBaseURL == "" {
		tc.AssetBaseURL = cfg.AssetBaseURL
	}
	if tc.SiteName == "" {
		tc.SiteName = cfg.SiteName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	name, err := options.Get(ctx, models.OptionSiteName, "")
	if err != nil {
		return nil, err
	}
	if name != "" {
		tc.SiteName = name
	}

	th, err := theme.New(tc)
	if err != nil {
		return nil, err
	}
	slog.Info("theme booted", "site", th.SiteName(), "config", cfg.ThemeConfig)
	return th, nil
}
