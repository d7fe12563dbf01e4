// Package db provides PostgreSQL storage for the skill taxonomy and for
// normalization results.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the taxonomy tables if they don't exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// LastUpdated returns the most recent skill modification time, or the zero time
func (db *DB) LastUpdated() time.Time {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var ts *time.Time
	if err := db.pool.QueryRow(ctx, `SELECT MAX(updated_at) FROM taxonomy_skills`).Scan(&ts); err != nil || ts == nil {
		return time.Time{}
	}
	return *ts
}

// Schema is the DDL for every table this package touches
const Schema = `
CREATE TABLE IF NOT EXISTS taxonomy_categories (
    key         TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS taxonomy_skills (
    id           UUID PRIMARY KEY,
    name         TEXT NOT NULL,
    category_key TEXT NOT NULL,
    aliases      TEXT[] NOT NULL DEFAULT '{}',
    description  TEXT NOT NULL DEFAULT '',
    level        TEXT NOT NULL DEFAULT 'unknown',
    metadata     JSONB NOT NULL DEFAULT '{}',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (name, category_key)
);

CREATE INDEX IF NOT EXISTS idx_taxonomy_skills_lower_name ON taxonomy_skills (lower(name));

CREATE TABLE IF NOT EXISTS skill_aliases (
    alias_normalized TEXT PRIMARY KEY,
    skill_id         UUID NOT NULL REFERENCES taxonomy_skills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS normalization_rules (
    id           UUID PRIMARY KEY,
    source_skill TEXT NOT NULL,
    target_skill TEXT NOT NULL,
    learned_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (source_skill, target_skill)
);

CREATE TABLE IF NOT EXISTS skill_normalizations (
    id              UUID PRIMARY KEY,
    batch_id        UUID NOT NULL,
    original_skill  TEXT NOT NULL,
    canonical_skill TEXT NOT NULL,
    category        TEXT NOT NULL DEFAULT '',
    confidence      DOUBLE PRECISION NOT NULL,
    strategy        TEXT NOT NULL,
    source          TEXT NOT NULL DEFAULT '',
    normalized_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skill_normalizations_batch ON skill_normalizations (batch_id);
`
