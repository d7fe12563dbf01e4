package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

const uniqueViolation = "23505"

var _ taxonomy.Store = (*DB)(nil)

const skillColumns = `s.name, s.category_key, s.aliases, s.description, s.level, s.metadata`

// GetAllSkills returns every skill ordered by creation
func (db *DB) GetAllSkills(ctx context.Context) ([]types.CanonicalSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+skillColumns+` FROM taxonomy_skills s ORDER BY s.created_at, s.category_key, s.name`)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "get_all_skills", Cause: err}
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "get_all_skills", Cause: err}
	}
	return skills, nil
}

// FindExact matches name case-insensitively against canonical names first, then aliases
func (db *DB) FindExact(ctx context.Context, name string) (*types.CanonicalSkill, error) {
	key := taxonomy.Key(name)
	if key == "" {
		return nil, nil
	}

	skill, err := scanSkill(db.pool.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM taxonomy_skills s
		 WHERE lower(s.name) = $1
		 ORDER BY s.created_at, s.category_key
		 LIMIT 1`, key))
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, &taxonomy.StoreError{Op: "find_exact", Cause: err}
	}

	skill, err = scanSkill(db.pool.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM taxonomy_skills s
		 JOIN skill_aliases a ON a.skill_id = s.id
		 WHERE a.alias_normalized = $1`, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &taxonomy.StoreError{Op: "find_exact", Cause: err}
	}
	return skill, nil
}

// FindByCategory returns a page of skills from one category
func (db *DB) FindByCategory(ctx context.Context, category string, limit, offset int) ([]types.CanonicalSkill, error) {
	if offset < 0 {
		offset = 0
	}
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+skillColumns+` FROM taxonomy_skills s
		 WHERE s.category_key = $1
		 ORDER BY s.created_at, s.name
		 LIMIT $2 OFFSET $3`, category, limitArg, offset)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "find_by_category", Cause: err}
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return nil, &taxonomy.StoreError{Op: "find_by_category", Cause: err}
	}
	return skills, nil
}

// AddSkill inserts a new skill and its aliases in one transaction
func (db *DB) AddSkill(ctx context.Context, skill types.CanonicalSkill) (string, error) {
	skill, err := taxonomy.Prepare(skill)
	if err != nil {
		return "", err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.New()
	if err := checkAliasConflicts(ctx, tx, skill, uuid.Nil); err != nil {
		return "", err
	}

	metadata, err := marshalMetadata(skill.Metadata)
	if err != nil {
		return "", err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO taxonomy_skills (id, name, category_key, aliases, description, level, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, skill.Name, skill.Category, skill.Aliases, skill.Description, skill.Level, metadata)
	if err != nil {
		if isUniqueViolation(err) {
			return "", &taxonomy.DuplicateSkillError{Category: skill.Category, Name: skill.Name}
		}
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	if err := insertAliases(ctx, tx, id, skill.Aliases); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", &taxonomy.StoreError{Op: "add_skill", Cause: err}
	}
	return skill.ID(), nil
}

// UpdateSkill applies patch to the skill with the given id
func (db *DB) UpdateSkill(ctx context.Context, id string, patch types.SkillPatch) error {
	category, name, ok := types.ParseSkillID(id)
	if !ok {
		return &taxonomy.InvalidIDError{ID: id}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rowID uuid.UUID
	current, err := scanSkill(tx.QueryRow(ctx,
		`SELECT `+skillColumns+`, s.id FROM taxonomy_skills s
		 WHERE s.category_key = $1 AND s.name = $2
		 FOR UPDATE`, category, name), &rowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	metadata, err := marshalMetadata(updated.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`UPDATE taxonomy_skills
		 SET name = $2, category_key = $3, aliases = $4, description = $5, level = $6, metadata = $7, updated_at = NOW()
		 WHERE id = $1`,
		rowID, updated.Name, updated.Category, updated.Aliases, updated.Description, updated.Level, metadata)
	if err != nil {
		if isUniqueViolation(err) {
			return &taxonomy.DuplicateSkillError{Category: updated.Category, Name: updated.Name}
		}
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM skill_aliases WHERE skill_id = $1`, rowID); err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	if err := insertAliases(ctx, tx, rowID, updated.Aliases); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &taxonomy.StoreError{Op: "update_skill", Cause: err}
	}
	return nil
}

// DeleteSkill removes the skill; its aliases cascade
func (db *DB) DeleteSkill(ctx context.Context, id string) error {
	category, name, ok := types.ParseSkillID(id)
	if !ok {
		return &taxonomy.InvalidIDError{ID: id}
	}

	tag, err := db.pool.Exec(ctx,
		`DELETE FROM taxonomy_skills WHERE category_key = $1 AND name = $2`, category, name)
	if err != nil {
		return &taxonomy.StoreError{Op: "delete_skill", Cause: err}
	}
	if tag.RowsAffected() == 0 {
		return &taxonomy.NotFoundError{ID: id}
	}
	return nil
}

// Search ranks skills by fuzzy similarity of the query to names and aliases
func (db *DB) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	var (
		skills []types.CanonicalSkill
		err    error
	)
	if opts.Category != "" {
		skills, err = db.FindByCategory(ctx, opts.Category, 0, 0)
	} else {
		skills, err = db.GetAllSkills(ctx)
	}
	if err != nil {
		return nil, err
	}
	return taxonomy.RankSearch(skills, query, opts), nil
}

// UpsertCategories writes category display data
func (db *DB) UpsertCategories(ctx context.Context, defs []taxonomy.CategoryDef) error {
	for _, d := range defs {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO taxonomy_categories (key, name, description)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (key) DO UPDATE SET name = $2, description = $3`,
			d.Key, d.Name, d.Description)
		if err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", d.Key, err)
		}
	}
	return nil
}

// ListCategories returns the stored category definitions
func (db *DB) ListCategories(ctx context.Context) ([]taxonomy.CategoryDef, error) {
	rows, err := db.pool.Query(ctx, `SELECT key, name, description FROM taxonomy_categories ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var defs []taxonomy.CategoryDef
	for rows.Next() {
		var d taxonomy.CategoryDef
		if err := rows.Scan(&d.Key, &d.Name, &d.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func checkAliasConflicts(ctx context.Context, tx pgx.Tx, skill types.CanonicalSkill, self uuid.UUID) error {
	var owner string
	err := tx.QueryRow(ctx,
		`SELECT s.category_key || ':' || s.name
		 FROM skill_aliases a JOIN taxonomy_skills s ON s.id = a.skill_id
		 WHERE a.alias_normalized = $1 AND s.id <> $2
		   AND NOT (s.category_key = $3 AND s.name = $4)`,
		taxonomy.Key(skill.Name), self, skill.Category, skill.Name).Scan(&owner)
	if err == nil {
		return &taxonomy.AliasConflictError{Alias: skill.Name, ExistingID: owner}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return &taxonomy.StoreError{Op: "check_aliases", Cause: err}
	}

	if len(skill.Aliases) == 0 {
		return nil
	}
	keys := make([]string, len(skill.Aliases))
	for i, a := range skill.Aliases {
		keys[i] = taxonomy.Key(a)
	}

	var alias, existing string
	err = tx.QueryRow(ctx,
		`SELECT a.alias_normalized, s.category_key || ':' || s.name
		 FROM skill_aliases a JOIN taxonomy_skills s ON s.id = a.skill_id
		 WHERE a.alias_normalized = ANY($1) AND s.id <> $2
		 UNION ALL
		 SELECT lower(s.name), s.category_key || ':' || s.name
		 FROM taxonomy_skills s
		 WHERE lower(s.name) = ANY($1) AND s.id <> $2
		   AND NOT (s.category_key = $3 AND s.name = $4)
		 LIMIT 1`,
		keys, self, skill.Category, skill.Name).Scan(&alias, &existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return &taxonomy.StoreError{Op: "check_aliases", Cause: err}
	}
	return &taxonomy.AliasConflictError{Alias: alias, ExistingID: existing}
}

func insertAliases(ctx context.Context, tx pgx.Tx, skillID uuid.UUID, aliases []string) error {
	for _, a := range aliases {
		_, err := tx.Exec(ctx,
			`INSERT INTO skill_aliases (alias_normalized, skill_id) VALUES ($1, $2)`,
			taxonomy.Key(a), skillID)
		if err != nil {
			return &taxonomy.StoreError{Op: "insert_alias", Cause: err}
		}
	}
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanSkill(row pgx.Row, extra ...any) (*types.CanonicalSkill, error) {
	var (
		s        types.CanonicalSkill
		metadata []byte
	)
	dest := append([]any{&s.Name, &s.Category, &s.Aliases, &s.Description, &s.Level, &metadata}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(metadata) > 0 && string(metadata) != "{}" {
		if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", s.ID(), err)
		}
	}
	return &s, nil
}

func scanSkills(rows pgx.Rows) ([]types.CanonicalSkill, error) {
	skills := []types.CanonicalSkill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *s)
	}
	return skills, rows.Err()
}
