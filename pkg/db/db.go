/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package db implements the relational metadata store on Postgres.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

// DB is the pgx-backed metadata store.
type DB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// New dials Postgres, runs the schema migration, and returns the store.
// A failure here is fatal to the process by design: nothing else in the
// core can run without its configuration source.
func New(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (Service, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	database := &DB{pool: pool, logger: log}

	if !cfg.SkipMigrate {
		if err := database.migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	log.Info().Str("component", "db").Msg("Metadata store ready")

	return database, nil
}

// NewWithPool wraps an existing pool, used by tests.
func NewWithPool(pool *pgxpool.Pool, log logger.Logger) *DB {
	return &DB{pool: pool, logger: log}
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInit, err)
		}
	}

	return nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		id            TEXT PRIMARY KEY,
		host          TEXT NOT NULL,
		port          INT NOT NULL DEFAULT 161,
		community     TEXT NOT NULL DEFAULT '',
		version       TEXT NOT NULL DEFAULT 'v2c',
		security_name TEXT NOT NULL DEFAULT '',
		auth_protocol TEXT NOT NULL DEFAULT '',
		auth_password TEXT NOT NULL DEFAULT '',
		priv_protocol TEXT NOT NULL DEFAULT '',
		priv_password TEXT NOT NULL DEFAULT '',
		poll_interval BIGINT NOT NULL,
		vendor        TEXT NOT NULL DEFAULT '',
		enabled       BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS alert_rules (
		id         TEXT PRIMARY KEY,
		device_id  TEXT NOT NULL DEFAULT '',
		metric     TEXT NOT NULL,
		condition  TEXT NOT NULL,
		threshold  DOUBLE PRECISION NOT NULL,
		enabled    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id          TEXT PRIMARY KEY,
		rule_id     TEXT NOT NULL,
		device_id   TEXT NOT NULL,
		message     TEXT NOT NULL DEFAULT '',
		severity    TEXT NOT NULL DEFAULT 'warning',
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		raised_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'viewer',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
