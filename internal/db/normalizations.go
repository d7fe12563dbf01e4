package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// StoreNormalizationResults writes one skill_normalizations row per normalized
// skill and returns the batch id that groups them
func (db *DB) StoreNormalizationResults(ctx context.Context, result *types.NormalizeResult, source string) (uuid.UUID, error) {
	batchID := uuid.New()
	if result == nil || len(result.NormalizedSkills) == 0 {
		return batchID, nil
	}

	batch := &pgx.Batch{}
	for _, ns := range result.NormalizedSkills {
		src := ns.Source
		if src == "" {
			src = source
		}
		at := ns.NormalizedAt
		if at.IsZero() {
			at = time.Now()
		}
		batch.Queue(
			`INSERT INTO skill_normalizations
			 (id, batch_id, original_skill, canonical_skill, category, confidence, strategy, source, normalized_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New(), batchID, ns.Original, ns.Canonical, ns.Category, ns.Confidence, string(ns.Strategy), src, at,
		)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range result.NormalizedSkills {
		if _, err := br.Exec(); err != nil {
			return uuid.Nil, fmt.Errorf("failed to store normalization result: %w", err)
		}
	}
	return batchID, nil
}

// GetNormalizationBatch loads the rows written by StoreNormalizationResults
func (db *DB) GetNormalizationBatch(ctx context.Context, batchID uuid.UUID) ([]types.NormalizedSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT original_skill, canonical_skill, category, confidence, strategy, source, normalized_at
		 FROM skill_normalizations WHERE batch_id = $1 ORDER BY normalized_at, original_skill`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get normalization batch: %w", err)
	}
	defer rows.Close()

	var out []types.NormalizedSkill
	for rows.Next() {
		var (
			ns       types.NormalizedSkill
			strategy string
		)
		if err := rows.Scan(&ns.Original, &ns.Canonical, &ns.Category, &ns.Confidence, &strategy, &ns.Source, &ns.NormalizedAt); err != nil {
			return nil, fmt.Errorf("failed to scan normalization: %w", err)
		}
		ns.Strategy = types.Strategy(strategy)
		out = append(out, ns)
	}
	return out, rows.Err()
}

// RecordMappings stores learned source -> canonical pairs
func (db *DB) RecordMappings(ctx context.Context, mappings []types.AliasMapping) error {
	for _, m := range mappings {
		learnedAt := m.LearnedAt
		if learnedAt.IsZero() {
			learnedAt = time.Now()
		}
		_, err := db.pool.Exec(ctx,
			`INSERT INTO normalization_rules (id, source_skill, target_skill, learned_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (source_skill, target_skill) DO UPDATE SET learned_at = $4`,
			uuid.New(), m.Source, m.Target, learnedAt)
		if err != nil {
			return fmt.Errorf("failed to record mapping %s -> %s: %w", m.Source, m.Target, err)
		}
	}
	return nil
}

// ListMappings returns every learned mapping, newest first
func (db *DB) ListMappings(ctx context.Context) ([]types.AliasMapping, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT source_skill, target_skill, learned_at FROM normalization_rules ORDER BY learned_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var out []types.AliasMapping
	for rows.Next() {
		var m types.AliasMapping
		if err := rows.Scan(&m.Source, &m.Target, &m.LearnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
