// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported key-value backends for ambassador profile storage.
const (
	KVMemory   = "memory"
	KVValkey   = "valkey"
	KVPostgres = "postgres"
	KVSQLite   = "sqlite"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"cruisy"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"cruisy"`
	DBMaxConns int    `env:"POSTGRES_MAX_CONNS" envDefault:"25"`

	// First back-office account, created in development when none exist.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@cruisy.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin"`

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" envDefault:"0"`

	// Profile storage backend and its SQLite file when KVBackend is "sqlite".
	KVBackend  string `env:"KV_BACKEND" envDefault:"valkey"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"cruisy.db"`

	// WordPress itinerary source
	WPBaseURL  string        `env:"WP_BASE_URL" envDefault:"https://cruisytravel.com"`
	WPPostType string        `env:"WP_POST_TYPE" envDefault:"itinerary"`
	WPTimeout  time.Duration `env:"WP_TIMEOUT" envDefault:"10s"`
	CatalogTTL time.Duration `env:"CATALOG_TTL" envDefault:"5m"`
	CardTTL    time.Duration `env:"CARD_CACHE_TTL" envDefault:"5m"`

	// PublicBaseURL prefixes ambassador slugs in public profile links.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"https://cruisytravel.com"`

	// Submission channels, tried in order until one succeeds.
	SubmitChannels     []string      `env:"SUBMIT_CHANNELS" envDefault:"webhook,mailto,clipboard" envSeparator:","`
	SubmitEmail        string        `env:"SUBMIT_EMAIL" envDefault:"ambassadors@cruisytravel.com"`
	WebhookURL         string        `env:"WEBHOOK_URL"`
	WebhookTimeout     time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"8s"`
	WebhookPayloadExpr string        `env:"WEBHOOK_PAYLOAD_EXPR"`

	// Origins allowed to call the public JSON API.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"https://cruisytravel.com" envSeparator:","`

	// S3-compatible object storage for submission archives (optional)
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3Region        string `env:"S3_REGION" envDefault:"fsn1"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3BucketPublic  string `env:"S3_BUCKET_PUBLIC" envDefault:"cruisy-public"`
	S3BucketPrivate string `env:"S3_BUCKET_PRIVATE" envDefault:"cruisy-private"`
	S3PublicURL     string `env:"S3_PUBLIC_URL"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return parse(env.Options{})
}

// parse fills a Config using the given env options and validates it.
func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.KVBackend = strings.ToLower(strings.TrimSpace(cfg.KVBackend))
	switch cfg.KVBackend {
	case KVMemory, KVValkey, KVPostgres, KVSQLite:
	default:
		return nil, fmt.Errorf("KV_BACKEND %q is not supported", cfg.KVBackend)
	}

	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("POSTGRES_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}

	cfg.SubmitChannels = trimAll(cfg.SubmitChannels)
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.WPBaseURL = strings.TrimRight(cfg.WPBaseURL, "/")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.KVBackend == KVMemory {
			return nil, fmt.Errorf("KV_BACKEND=memory is not allowed in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// ValkeyAddr returns the Valkey host:port.
func (c *Config) ValkeyAddr() string {
	return c.ValkeyHost + ":" + c.ValkeyPort
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// trimAll trims each element and drops empty ones.
func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
