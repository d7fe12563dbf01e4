package taxonomy

import (
	"sort"
	"strings"

	"github.com/jonathan/skill-taxonomy/internal/fuzzy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// RankSearch scores every skill by the best partial ratio between the query and
// its name or aliases, keeps hits at or above the threshold and returns them
// sorted by descending score. Input order breaks ties.
func RankSearch(skills []types.CanonicalSkill, query string, opts types.SearchOptions) []types.SearchResult {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultSearchThreshold
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := strings.ToLower(strings.TrimSpace(query))
	results := []types.SearchResult{}
	if q == "" {
		return results
	}

	for _, skill := range skills {
		if opts.Category != "" && skill.Category != opts.Category {
			continue
		}
		score := fuzzy.PartialRatio(q, strings.ToLower(skill.Name))
		for _, alias := range skill.Aliases {
			score = max(score, fuzzy.PartialRatio(q, strings.ToLower(alias)))
		}
		if score >= threshold {
			results = append(results, types.SearchResult{Skill: skill, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
