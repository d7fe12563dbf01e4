// Package taxonomy holds the canonical skill taxonomy: the Store contract,
// an in-memory implementation, the default seed data and helpers for
// categories, statistics, search and import/export.
package taxonomy

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

const (
	// DefaultSearchThreshold is the minimum partial-ratio score for search hits
	DefaultSearchThreshold = 0.6
	// DefaultSearchLimit caps the number of search hits
	DefaultSearchLimit = 20
)

// Store is a persistence backend for canonical skills.
//
// FindExact returns (nil, nil) when nothing matches. A limit <= 0 in
// FindByCategory means no limit.
type Store interface {
	GetAllSkills(ctx context.Context) ([]types.CanonicalSkill, error)
	FindExact(ctx context.Context, name string) (*types.CanonicalSkill, error)
	FindByCategory(ctx context.Context, category string, limit, offset int) ([]types.CanonicalSkill, error)
	AddSkill(ctx context.Context, skill types.CanonicalSkill) (string, error)
	UpdateSkill(ctx context.Context, id string, patch types.SkillPatch) error
	DeleteSkill(ctx context.Context, id string) error
	Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error)
}

// LastUpdater is implemented by stores that track their last mutation time
type LastUpdater interface {
	LastUpdated() time.Time
}

var validate = validator.New()

// Prepare validates skill and returns a cleaned copy: trimmed fields and
// aliases deduplicated case-insensitively (first spelling wins).
func Prepare(skill types.CanonicalSkill) (types.CanonicalSkill, error) {
	out := skill.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.Category = strings.TrimSpace(out.Category)

	if err := validate.Struct(out); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return out, &ValidationError{Field: strings.ToLower(verrs[0].Field()), Message: "is " + verrs[0].Tag()}
		}
		return out, &ValidationError{Field: "skill", Message: err.Error()}
	}
	if strings.Contains(out.Category, ":") {
		return out, &ValidationError{Field: "category", Message: "must not contain ':'"}
	}

	seen := make(map[string]struct{}, len(out.Aliases))
	aliases := make([]string, 0, len(out.Aliases))
	for _, a := range out.Aliases {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		aliases = append(aliases, a)
	}
	out.Aliases = aliases
	if out.Level == "" {
		out.Level = "unknown"
	}
	return out, nil
}

// Key lowercases and trims s for case-insensitive lookups
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Paginate applies offset and limit to skills
func Paginate(skills []types.CanonicalSkill, limit, offset int) []types.CanonicalSkill {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(skills) {
		return []types.CanonicalSkill{}
	}
	skills = skills[offset:]
	if limit > 0 && limit < len(skills) {
		skills = skills[:limit]
	}
	return skills
}
