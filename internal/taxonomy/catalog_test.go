package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	_, err := s.AddSkill(ctx, types.CanonicalSkill{Name: "Chess", Category: "hobbies"})
	require.NoError(t, err)

	cats, err := Categories(ctx, s, DefaultCategories())
	require.NoError(t, err)
	require.Len(t, cats, len(DefaultCategories())+1)

	byKey := map[string]types.CategoryInfo{}
	for _, c := range cats {
		byKey[c.Key] = c
	}
	assert.Equal(t, 10, byKey["programming_languages"].SkillCount)
	assert.Equal(t, "Programming Languages", byKey["programming_languages"].Name)
	assert.Equal(t, 0, byKey["soft_skills"].SkillCount)
	assert.Equal(t, 1, byKey["hobbies"].SkillCount)
	assert.Equal(t, "hobbies", cats[len(cats)-1].Key)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	stats, err := Stats(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultSkills()), stats.TotalSkills)
	assert.Equal(t, 7, stats.Categories["devops"])
	assert.InDelta(t, float64(len(DefaultSkills()))/100, stats.CoverageScore, 1e-9)
	assert.False(t, stats.LastUpdated.IsZero())

	aliases := 0
	all, err := s.GetAllSkills(ctx)
	require.NoError(t, err)
	for _, sk := range all {
		aliases += len(sk.Aliases)
	}
	assert.Equal(t, aliases, stats.NormalizationRules)
}

func TestStats_CoverageCapped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	for i := 0; i < 120; i++ {
		_, err := s.AddSkill(ctx, types.CanonicalSkill{Name: string(rune('A'+i%26)) + string(rune('a'+i/26)), Category: "generated"})
		require.NoError(t, err)
	}
	stats, err := Stats(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.CoverageScore)
}

func TestRankSearch_Defaults(t *testing.T) {
	skills := DefaultSkills()
	results := RankSearch(skills, "a", types.SearchOptions{})
	assert.LessOrEqual(t, len(results), DefaultSearchLimit)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, DefaultSearchThreshold)
	}
}
