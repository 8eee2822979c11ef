// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database opens the SQL databases and applies their goose
// migrations. PostgreSQL holds reviewers, the submission queue and
// optionally the profile key-value table. SQLite can hold the profile
// table alone on a single node.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// pingTimeout bounds the reachability check done when opening a database.
const pingTimeout = 5 * time.Second

// Connect opens a PostgreSQL pool of at most maxConns connections and
// checks that the server answers.
func Connect(dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(maxConns/5, 1))
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	slog.Info("database connected", "driver", "pgx", "max_conns", maxConns)
	return db, nil
}

// OpenSQLite opens or creates the SQLite file at path. The pool holds one
// connection: SQLite has a single writer and ":memory:" databases live
// only as long as their connection.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, pragma := range []string{`PRAGMA journal_mode = WAL`, `PRAGMA busy_timeout = 5000`} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}
	slog.Info("database connected", "driver", "sqlite", "path", path)
	return db, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	return nil
}

// Migrate applies the PostgreSQL migrations embedded in the binary.
func Migrate(db *sql.DB) error {
	return up(db, goose.DialectPostgres, "migrations/postgres")
}

// MigrateSQLite applies the SQLite migrations, which create only the
// profile key-value table.
func MigrateSQLite(db *sql.DB) error {
	return up(db, goose.DialectSQLite3, "migrations/sqlite")
}

func up(db *sql.DB, dialect goose.Dialect, dir string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	slog.Info("database migrated", "dialect", dialect, "version", version)
	return nil
}
