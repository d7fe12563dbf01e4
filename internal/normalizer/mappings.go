package normalizer

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// DefaultMaxSuggestions caps SuggestAliases when limit <= 0
const DefaultMaxSuggestions = 10

// MappingRecorder persists learned source -> canonical pairs
type MappingRecorder interface {
	RecordMappings(ctx context.Context, mappings []types.AliasMapping) error
}

// MemoryRecorder keeps learned mappings in process memory
type MemoryRecorder struct {
	mu       sync.Mutex
	mappings []types.AliasMapping
}

// NewMemoryRecorder creates an empty recorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// RecordMappings appends mappings
func (r *MemoryRecorder) RecordMappings(_ context.Context, mappings []types.AliasMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings = append(r.mappings, mappings...)
	return nil
}

// Mappings returns a copy of everything recorded so far
func (r *MemoryRecorder) Mappings() []types.AliasMapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.AliasMapping(nil), r.mappings...)
}

// LearnFromMappings records source[i] -> target[i] pairs for later review.
// Extra items in the longer list are ignored.
func (n *Normalizer) LearnFromMappings(ctx context.Context, source, target []string) error {
	count := min(len(source), len(target))
	n.logger.Info("learning from skill mappings", zap.Int("source", len(source)), zap.Int("target", len(target)))
	if count == 0 {
		return nil
	}

	now := time.Now()
	mappings := make([]types.AliasMapping, 0, count)
	for i := 0; i < count; i++ {
		mappings = append(mappings, types.AliasMapping{Source: source[i], Target: target[i], LearnedAt: now})
	}
	if err := n.recorder.RecordMappings(ctx, mappings); err != nil {
		n.logger.Error("failed to record mappings", zap.Error(err))
		return err
	}
	return nil
}

// SuggestAliases proposes spelling variants of skill that the taxonomy
// doesn't already list as aliases
func (n *Normalizer) SuggestAliases(ctx context.Context, skill string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return []string{}
	}

	existing := make(map[string]bool)
	if found := n.lookup(ctx, skill); found != nil {
		for _, a := range found.Aliases {
			existing[strings.ToLower(a)] = true
		}
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, v := range variations(skill) {
		key := strings.ToLower(v)
		if v == "" || seen[v] || existing[key] || key == strings.ToLower(skill) {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func variations(skill string) []string {
	lower := strings.ToLower(skill)
	var out []string

	switch lower {
	case "javascript":
		out = append(out, "JS", "js", "JavaScript")
	case "typescript":
		out = append(out, "TS", "ts", "TypeScript")
	case "python":
		out = append(out, "Python", "python", "Py")
	case "amazon web services":
		out = append(out, "AWS", "aws", "Amazon Web Services")
	}

	switch {
	case strings.Contains(lower, "react"):
		out = append(out, strings.ReplaceAll(skill, "React", "React.js"))
	case strings.Contains(lower, "vue"):
		out = append(out, strings.ReplaceAll(skill, "Vue", "Vue.js"))
	case strings.Contains(lower, "angular"):
		out = append(out, strings.ReplaceAll(skill, "Angular", "AngularJS"))
	}

	out = append(out,
		cases.Title(language.English).String(skill),
		strings.ToUpper(skill),
		lower,
		strings.ReplaceAll(skill, " ", ""),
		strings.ReplaceAll(skill, " ", "_"),
		strings.ReplaceAll(skill, " ", "-"),
	)
	return out
}
