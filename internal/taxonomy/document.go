package taxonomy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// DocumentVersion is written to every export
const DocumentVersion = "1.0"

// Entry is one skill inside a Document, keyed by category and name
type Entry struct {
	Aliases     []string       `json:"aliases,omitempty" toml:"aliases,omitempty"`
	Description string         `json:"description,omitempty" toml:"description,omitempty"`
	Level       string         `json:"level,omitempty" toml:"level,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

// CategoryEntry is the display data of a category inside a Document
type CategoryEntry struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
}

// Document is the portable taxonomy format used by import and export
type Document struct {
	Taxonomy   map[string]map[string]Entry `json:"taxonomy" toml:"taxonomy"`
	Categories map[string]CategoryEntry    `json:"categories,omitempty" toml:"categories,omitempty"`
	ExportedAt *time.Time                  `json:"exported_at,omitempty" toml:"exported_at,omitempty"`
	Version    string                      `json:"version,omitempty" toml:"version,omitempty"`
}

// ImportSummary reports what an import changed
type ImportSummary struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Export snapshots the store into a Document
func Export(ctx context.Context, store Store, defs []CategoryDef) (*Document, error) {
	skills, err := store.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	now := time.Now().UTC()
	doc := &Document{
		Taxonomy:   make(map[string]map[string]Entry),
		Categories: make(map[string]CategoryEntry, len(defs)),
		ExportedAt: &now,
		Version:    DocumentVersion,
	}
	for _, d := range defs {
		doc.Categories[d.Key] = CategoryEntry{Name: d.Name, Description: d.Description}
	}
	for _, s := range skills {
		if doc.Taxonomy[s.Category] == nil {
			doc.Taxonomy[s.Category] = make(map[string]Entry)
		}
		doc.Taxonomy[s.Category][s.Name] = Entry{
			Aliases:     s.Aliases,
			Description: s.Description,
			Level:       s.Level,
			Metadata:    s.Metadata,
		}
	}
	return doc, nil
}

// Skills flattens the document into skills sorted by category then name
func (d *Document) Skills() []types.CanonicalSkill {
	categories := make([]string, 0, len(d.Taxonomy))
	for c := range d.Taxonomy {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var out []types.CanonicalSkill
	for _, c := range categories {
		names := make([]string, 0, len(d.Taxonomy[c]))
		for n := range d.Taxonomy[c] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			e := d.Taxonomy[c][n]
			out = append(out, types.CanonicalSkill{
				Name:        n,
				Category:    c,
				Aliases:     e.Aliases,
				Description: e.Description,
				Level:       e.Level,
				Metadata:    e.Metadata,
			})
		}
	}
	return out
}

// Import merges the document into the store: existing skills are updated,
// new ones are added. It stops at the first failing record.
func Import(ctx context.Context, store Store, doc *Document) (ImportSummary, error) {
	var summary ImportSummary
	for _, skill := range doc.Skills() {
		existing, err := store.FindByCategory(ctx, skill.Category, 0, 0)
		if err != nil {
			return summary, fmt.Errorf("failed to load category %s: %w", skill.Category, err)
		}
		if containsName(existing, skill.Name) {
			aliases := skill.Aliases
			patch := types.SkillPatch{
				Aliases:     &aliases,
				Description: &skill.Description,
				Level:       &skill.Level,
				Metadata:    skill.Metadata,
			}
			if err := store.UpdateSkill(ctx, skill.ID(), patch); err != nil {
				return summary, fmt.Errorf("failed to update %s: %w", skill.ID(), err)
			}
			summary.Updated++
			continue
		}
		if _, err := store.AddSkill(ctx, skill); err != nil {
			return summary, fmt.Errorf("failed to add %s: %w", skill.ID(), err)
		}
		summary.Added++
	}
	return summary, nil
}

func containsName(skills []types.CanonicalSkill, name string) bool {
	for _, s := range skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// EncodeJSON writes the document as indented JSON
func EncodeJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal taxonomy: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON document
func DecodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}
	return &doc, nil
}

// EncodeTOML writes the document as TOML
func EncodeTOML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal taxonomy TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeTOML parses a TOML document
func DecodeTOML(data []byte) (*Document, error) {
	var doc Document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy TOML: %w", err)
	}
	return &doc, nil
}
