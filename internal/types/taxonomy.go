// Package types provides type definitions for structured data used throughout the skill taxonomy system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// CanonicalSkill represents the single authoritative entry for a skill concept
type CanonicalSkill struct {
	Name        string         `json:"name" toml:"name" validate:"required"`
	Category    string         `json:"category" toml:"category" validate:"required"`
	Aliases     []string       `json:"aliases,omitempty" toml:"aliases,omitempty"`
	Description string         `json:"description,omitempty" toml:"description,omitempty"`
	Level       string         `json:"level,omitempty" toml:"level,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

// ID returns the "<category>:<name>" identifier of the skill
func (s CanonicalSkill) ID() string {
	return SkillID(s.Category, s.Name)
}

// Clone returns a deep copy so callers can't mutate stored records
func (s CanonicalSkill) Clone() CanonicalSkill {
	out := s
	if s.Aliases != nil {
		out.Aliases = append([]string(nil), s.Aliases...)
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// SkillID builds the identifier used by update and delete operations
func SkillID(category, name string) string {
	return category + ":" + name
}

// ParseSkillID splits an identifier into category and name on the first ':'
func ParseSkillID(id string) (category, name string, ok bool) {
	category, name, ok = strings.Cut(id, ":")
	if !ok || category == "" || name == "" {
		return "", "", false
	}
	return category, name, true
}

// SkillPatch holds the fields to change on an existing skill. Nil fields are left untouched;
// Metadata entries are merged into the existing map.
type SkillPatch struct {
	Name        *string        `json:"name,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Aliases     *[]string      `json:"aliases,omitempty"`
	Description *string        `json:"description,omitempty"`
	Level       *string        `json:"level,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Apply returns a copy of skill with the patch applied
func (p SkillPatch) Apply(skill CanonicalSkill) CanonicalSkill {
	out := skill.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Aliases != nil {
		out.Aliases = append([]string(nil), (*p.Aliases)...)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Level != nil {
		out.Level = *p.Level
	}
	if len(p.Metadata) > 0 {
		if out.Metadata == nil {
			out.Metadata = make(map[string]any, len(p.Metadata))
		}
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// CategoryInfo describes a taxonomy category
type CategoryInfo struct {
	Key         string `json:"key" toml:"key"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
	SkillCount  int    `json:"skill_count" toml:"skill_count"`
}

// TaxonomyStats summarizes the contents of a taxonomy store
type TaxonomyStats struct {
	TotalSkills        int            `json:"total_skills"`
	Categories         map[string]int `json:"categories"`
	NormalizationRules int            `json:"normalization_rules"`
	LastUpdated        time.Time      `json:"last_updated"`
	CoverageScore      float64        `json:"coverage_score"`
}

// SearchOptions narrows a taxonomy search
type SearchOptions struct {
	Category  string  `json:"category,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// SearchResult is one ranked hit from a taxonomy search
type SearchResult struct {
	Skill CanonicalSkill `json:"skill"`
	Score float64        `json:"score"`
}
