package taxonomy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// coverageTarget is the skill count considered full coverage
const coverageTarget = 100.0

// Categories lists the known categories plus any category that only appears
// on stored skills, with per-category skill counts.
func Categories(ctx context.Context, store Store, defs []CategoryDef) ([]types.CategoryInfo, error) {
	skills, err := store.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	counts := make(map[string]int)
	var extra []string
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.Key] = true
	}
	for _, s := range skills {
		if counts[s.Category] == 0 && !known[s.Category] {
			extra = append(extra, s.Category)
		}
		counts[s.Category]++
	}

	out := make([]types.CategoryInfo, 0, len(defs)+len(extra))
	for _, d := range defs {
		out = append(out, types.CategoryInfo{Key: d.Key, Name: d.Name, Description: d.Description, SkillCount: counts[d.Key]})
	}
	for _, key := range extra {
		out = append(out, types.CategoryInfo{Key: key, Name: key, SkillCount: counts[key]})
	}
	return out, nil
}

// Stats summarizes the store. Aliases count as normalization rules.
func Stats(ctx context.Context, store Store) (*types.TaxonomyStats, error) {
	skills, err := store.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	stats := &types.TaxonomyStats{
		TotalSkills: len(skills),
		Categories:  make(map[string]int),
	}
	for _, s := range skills {
		stats.Categories[s.Category]++
		stats.NormalizationRules += len(s.Aliases)
	}
	stats.CoverageScore = math.Min(float64(len(skills))/coverageTarget, 1.0)
	if lu, ok := store.(LastUpdater); ok {
		stats.LastUpdated = lu.LastUpdated()
	} else {
		stats.LastUpdated = time.Now()
	}
	return stats, nil
}
