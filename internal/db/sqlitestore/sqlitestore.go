// Package sqlitestore is a file-backed taxonomy Store on SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

var _ taxonomy.Store = (*Store)(nil)

// Store implements taxonomy.Store on a SQLite database file
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS skills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		name_lower TEXT NOT NULL,
		category TEXT NOT NULL,
		aliases TEXT NOT NULL DEFAULT '[]',
		description TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'unknown',
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (category, name)
	);

	CREATE TABLE IF NOT EXISTS skill_aliases (
		alias_lower TEXT PRIMARY KEY,
		skill_id INTEGER NOT NULL,
		FOREIGN KEY (skill_id) REFERENCES skills(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_skills_name_lower ON skills(name_lower);
	CREATE INDEX IF NOT EXISTS idx_skills_category ON skills(category);
	`

	_, err := db.Exec(schema)
	return err
}

const selectSkill = `SELECT s.name, s.category, s.aliases, s.description, s.level, s.metadata FROM skills s`

// GetAllSkills returns every skill in insertion order
func (s *Store) GetAllSkills(ctx context.Context) ([]types.CanonicalSkill, error) {
	rows, err := s.db.QueryContext(ctx, selectSkill+` ORDER BY s.id`)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "get_all_skills", Cause: err}
	}
	defer rows.Close()
	return scanSkills(rows, "get_all_skills")
}

// FindExact matches name case-insensitively against canonical names first, then aliases
func (s *Store) FindExact(ctx context.Context, name string) (*types.CanonicalSkill, error) {
	key := taxonomy.Key(name)
	if key == "" {
		return nil, nil
	}

	skill, err := scanSkill(s.db.QueryRowContext(ctx,
		selectSkill+` WHERE s.name_lower = ? ORDER BY s.id LIMIT 1`, key))
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, &taxonomy.StoreError{Op: "find_exact", Cause: err}
	}

	skill, err = scanSkill(s.db.QueryRowContext(ctx,
		selectSkill+` JOIN skill_aliases a ON a.skill_id = s.id WHERE a.alias_lower = ?`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &taxonomy.StoreError{Op: "find_exact", Cause: err}
	}
	return skill, nil
}

// FindByCategory returns a page of skills from one category
func (s *Store) FindByCategory(ctx context.Context, category string, limit, offset int) ([]types.CanonicalSkill, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		selectSkill+` WHERE s.category = ? ORDER BY s.id LIMIT ? OFFSET ?`, category, limit, offset)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "find_by_category", Cause: err}
	}
	defer rows.Close()
	return scanSkills(rows, "find_by_category")
}

// AddSkill inserts a new skill and its aliases in one transaction
func (s *Store) AddSkill(ctx context.Context, skill types.CanonicalSkill) (string, error) {
	skill, err := taxonomy.Prepare(skill)
	if err != nil {
		return "", err
	}
	aliases, metadata, err := encodeJSONColumns(skill)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkAliasConflicts(ctx, tx, skill, 0); err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO skills (name, name_lower, category, aliases, description, level, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		skill.Name, taxonomy.Key(skill.Name), skill.Category, aliases, skill.Description, skill.Level, metadata)
	if err != nil {
		if isConstraintUnique(err) {
			return "", &taxonomy.DuplicateSkillError{Category: skill.Category, Name: skill.Name}
		}
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	if err := insertAliases(ctx, tx, rowID, skill.Aliases); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	return skill.ID(), nil
}

// UpdateSkill applies patch to the skill with the given id
func (s *Store) UpdateSkill(ctx context.Context, id string, patch types.SkillPatch) error {
	category, name, ok := types.ParseSkillID(id)
	if !ok {
		return &taxonomy.InvalidIDError{ID: id}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var rowID int64
	current, err := scanSkill(tx.QueryRowContext(ctx,
		`SELECT s.name, s.category, s.aliases, s.description, s.level, s.metadata, s.id
		 FROM skills s WHERE s.category = ? AND s.name = ?`, category, name), &rowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &taxonomy.NotFoundError{ID: id}
		}
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}

	updated, err := taxonomy.Prepare(patch.Apply(*current))
	if err != nil {
		return err
	}
	if err := checkAliasConflicts(ctx, tx, updated, rowID); err != nil {
		return err
	}
	aliases, metadata, err := encodeJSONColumns(updated)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE skills SET name = ?, name_lower = ?, category = ?, aliases = ?, description = ?, level = ?, metadata = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		updated.Name, taxonomy.Key(updated.Name), updated.Category, aliases, updated.Description, updated.Level, metadata, rowID)
	if err != nil {
		if isConstraintUnique(err) {
			return &taxonomy.DuplicateSkillError{Category: updated.Category, Name: updated.Name}
		}
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM skill_aliases WHERE skill_id = ?`, rowID); err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	if err := insertAliases(ctx, tx, rowID, updated.Aliases); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	return nil
}

// DeleteSkill removes the skill; its aliases cascade
func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	category, name, ok := types.ParseSkillID(id)
	if !ok {
		return &taxonomy.InvalidIDError{ID: id}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE category = ? AND name = ?`, category, name)
	if err != nil {
		return &taxonomy.StoreError{Op: "delete_skill", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &taxonomy.StoreError{Op: "delete_skill", Cause: err}
	}
	if n == 0 {
		return &taxonomy.NotFoundError{ID: id}
	}
	return nil
}

// Search ranks skills by fuzzy similarity of the query to names and aliases
func (s *Store) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	var (
		skills []types.CanonicalSkill
		err    error
	)
	if opts.Category != "" {
		skills, err = s.FindByCategory(ctx, opts.Category, 0, 0)
	} else {
		skills, err = s.GetAllSkills(ctx)
	}
	if err != nil {
		return nil, err
	}
	return taxonomy.RankSearch(skills, query, opts), nil
}

// LastUpdated returns the most recent modification time, or the zero time
func (s *Store) LastUpdated() time.Time {
	var raw sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(updated_at) FROM skills`).Scan(&raw); err != nil || !raw.Valid {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw.String); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func checkAliasConflicts(ctx context.Context, tx *sql.Tx, skill types.CanonicalSkill, self int64) error {
	var owner string
	err := tx.QueryRowContext(ctx,
		`SELECT s.category || ':' || s.name FROM skill_aliases a JOIN skills s ON s.id = a.skill_id
		 WHERE a.alias_lower = ? AND s.id <> ? AND NOT (s.category = ? AND s.name = ?)
		 LIMIT 1`,
		taxonomy.Key(skill.Name), self, skill.Category, skill.Name).Scan(&owner)
	if err == nil {
		return &taxonomy.AliasConflictError{Alias: skill.Name, ExistingID: owner}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return &taxonomy.StoreError{Op: "check_aliases", Cause: err}
	}

	for _, alias := range skill.Aliases {
		key := taxonomy.Key(alias)
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT s.category || ':' || s.name FROM skill_aliases a JOIN skills s ON s.id = a.skill_id
			 WHERE a.alias_lower = ? AND s.id <> ?
			 UNION ALL
			 SELECT s.category || ':' || s.name FROM skills s
			 WHERE s.name_lower = ? AND s.id <> ? AND NOT (s.category = ? AND s.name = ?)
			 LIMIT 1`,
			key, self, key, self, skill.Category, skill.Name).Scan(&existing)
		if err == nil {
			return &taxonomy.AliasConflictError{Alias: alias, ExistingID: existing}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return &taxonomy.StoreError{Op: "check_aliases", Cause: err}
		}
	}
	return nil
}

func insertAliases(ctx context.Context, tx *sql.Tx, skillID int64, aliases []string) error {
	for _, a := range aliases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skill_aliases (alias_lower, skill_id) VALUES (?, ?)`, taxonomy.Key(a), skillID); err != nil {
			return &taxonomy.StoreError{Op: "insert_alias", Cause: err}
		}
	}
	return nil
}

func encodeJSONColumns(skill types.CanonicalSkill) (aliases, metadata string, err error) {
	a, err := json.Marshal(skill.Aliases)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal aliases: %w", err)
	}
	m := []byte("{}")
	if skill.Metadata != nil {
		if m, err = json.Marshal(skill.Metadata); err != nil {
			return "", "", fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}
	return string(a), string(m), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(row scanner, extra ...any) (*types.CanonicalSkill, error) {
	var (
		skill             types.CanonicalSkill
		aliases, metadata string
	)
	dest := append([]any{&skill.Name, &skill.Category, &aliases, &skill.Description, &skill.Level, &metadata}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(aliases), &skill.Aliases); err != nil {
		return nil, fmt.Errorf("failed to parse aliases for %s: %w", skill.ID(), err)
	}
	if strings.TrimSpace(metadata) != "{}" {
		if err := json.Unmarshal([]byte(metadata), &skill.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", skill.ID(), err)
		}
	}
	return &skill, nil
}

func scanSkills(rows *sql.Rows, op string) ([]types.CanonicalSkill, error) {
	skills := []types.CanonicalSkill{}
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, &taxonomy.StoreError{Op: op, Cause: err}
		}
		skills = append(skills, *skill)
	}
	if err := rows.Err(); err != nil {
		return nil, &taxonomy.StoreError{Op: op, Cause: err}
	}
	return skills, nil
}

func isConstraintUnique(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
