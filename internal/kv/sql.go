// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqlQueries holds the dialect-specific statements for the kv_entries table.
type sqlQueries struct {
	get    string
	set    string
	remove string
}

var (
	postgresQueries = sqlQueries{
		get: `SELECT value FROM kv_entries WHERE key = $1`,
		set: `
			INSERT INTO kv_entries (key, value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		remove: `DELETE FROM kv_entries WHERE key = $1`,
	}

	sqliteQueries = sqlQueries{
		get: `SELECT value FROM kv_entries WHERE key = ?`,
		set: `
			INSERT INTO kv_entries (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (key)
			DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_entries WHERE key = ?`,
	}
)

// SQL stores values in the kv_entries table of a PostgreSQL or SQLite
// database. The schema comes from the database package migrations.
type SQL struct {
	db *sql.DB
	q  sqlQueries
}

// NewPostgres returns a Storage backed by a PostgreSQL pool.
func NewPostgres(db *sql.DB) *SQL {
	return &SQL{db: db, q: postgresQueries}
}

// NewSQLite returns a Storage backed by a SQLite database.
func NewSQLite(db *sql.DB) *SQL {
	return &SQL{db: db, q: sqliteQueries}
}

// Get returns the value stored under key.
func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv sql get %s: %w", key, err)
	}
	return val, nil
}

// Set upserts value under key.
func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("kv sql set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *SQL) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.remove, key); err != nil {
		return fmt.Errorf("kv sql remove %s: %w", key, err)
	}
	return nil
}
