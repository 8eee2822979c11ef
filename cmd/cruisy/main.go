// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Cruisy ambassador portal.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"cruisy/internal/cache"
	"cruisy/internal/catalog"
	"cruisy/internal/config"
	"cruisy/internal/database"
	"cruisy/internal/handlers"
	"cruisy/internal/kv"
	"cruisy/internal/middleware"
	"cruisy/internal/profile"
	"cruisy/internal/render"
	"cruisy/internal/router"
	"cruisy/internal/session"
	"cruisy/internal/storage"
	"cruisy/internal/store"
	"cruisy/internal/submission"
	"cruisy/internal/wordpress"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"kv_backend", cfg.KVBackend,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN(), cfg.DBMaxConns)
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
		if err := database.Seed(db, database.SeedAccount{
			Email:       cfg.SeedAdminEmail,
			Password:    cfg.SeedAdminPassword,
			DisplayName: "Cruisy HQ",
		}); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, caches).
	valkeyClient, err := cache.ConnectValkey(cache.ValkeyOptions{
		Addr:     cfg.ValkeyAddr(),
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Ambassador profile storage.
	profileKV, closeKV, err := openKV(cfg, db, valkeyClient)
	if err != nil {
		slog.Error("failed to open profile storage", "backend", cfg.KVBackend, "error", err)
		os.Exit(1)
	}
	defer closeKV()
	profiles := profile.NewStore(profileKV)

	// Itinerary catalog from WordPress, cached in Valkey.
	wp := wordpress.New(cfg.WPBaseURL, cfg.WPPostType, cfg.WPTimeout)
	var cat *catalog.Service
	if cfg.CatalogTTL > 0 {
		cat = catalog.New(wp, cache.NewCatalogCache(valkeyClient, cfg.CatalogTTL))
	} else {
		cat = catalog.New(wp, nil)
	}
	slog.Info("itinerary source configured", "endpoint", wp.Endpoint(), "cache_ttl", cfg.CatalogTTL)

	// Submission channels, tried in order.
	channels, err := submission.NewChannels(cfg.SubmitChannels, submission.Options{
		Email:          cfg.SubmitEmail,
		WebhookURL:     cfg.WebhookURL,
		WebhookTimeout: cfg.WebhookTimeout,
		PayloadExpr:    cfg.WebhookPayloadExpr,
	})
	if err != nil {
		slog.Error("invalid submission channels", "error", err)
		os.Exit(1)
	}
	dispatcher := submission.NewDispatcher(channels...)
	slog.Info("submission channels configured", "channels", dispatcher.Channels())

	// Connect to S3-compatible object storage (optional, the portal works without it).
	storageClient, err := storage.New(storage.Options{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBucket:  cfg.S3BucketPublic,
		PrivateBucket: cfg.S3BucketPrivate,
		PublicURL:     cfg.S3PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, submission archives and card publishing disabled")
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	portalSessions := session.NewStore(valkeyClient, session.PortalCookie, secureCookies)
	adminSessions := session.NewStore(valkeyClient, session.AdminCookie, secureCookies)

	// In dev mode, templates load assets from CDN; in production they use
	// compiled local files embedded in the binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	userStore := store.NewUserStore(db)
	submissionStore := store.NewSubmissionStore(db)
	cardCache := cache.NewCardCache(valkeyClient, cfg.CardTTL)

	h := router.Handlers{
		Portal: handlers.NewPortal(renderer, portalSessions, profiles, cat, dispatcher, submissionStore, storageClient, cardCache, cfg.PublicBaseURL),
		Public: handlers.NewPublic(renderer, profiles, cat, submissionStore, cardCache, cfg.PublicBaseURL),
		API:    handlers.NewAPI(cat, profiles, submissionStore, cfg.PublicBaseURL),
		Admin:  handlers.NewAdmin(renderer, adminSessions, submissionStore, profiles, cat, storageClient, cardCache, cfg.PublicBaseURL),
		Auth:   handlers.NewAuth(renderer, adminSessions, userStore),
	}

	limiter := middleware.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	r := router.New(portalSessions, adminSessions, h, router.Options{
		SecureCookies: secureCookies,
		CORSOrigins:   cfg.CORSOrigins,
		Limiter:       limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openKV returns the profile storage adapter selected by KV_BACKEND and a
// function releasing any resources it opened.
func openKV(cfg *config.Config, db *sql.DB, client *redis.Client) (kv.Storage, func(), error) {
	noop := func() {}
	switch cfg.KVBackend {
	case config.KVMemory:
		slog.Warn("profiles are kept in memory and lost on restart")
		return kv.NewMemory(), noop, nil
	case config.KVPostgres:
		return kv.NewPostgres(db), noop, nil
	case config.KVSQLite:
		lite, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		if err := database.MigrateSQLite(lite); err != nil {
			lite.Close()
			return nil, noop, err
		}
		return kv.NewSQLite(lite), func() { lite.Close() }, nil
	default:
		return kv.NewValkey(client), noop, nil
	}
}
