package matcher

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

type stubEmbedder map[string][]float64

func (s stubEmbedder) Embed(skill string) []float64 {
	if v, ok := s[skill]; ok {
		return v
	}
	return []float64{0, 0}
}

func (s stubEmbedder) Dimension() int { return 2 }

func angle(deg float64) []float64 {
	rad := deg * math.Pi / 180
	return []float64{math.Cos(rad), math.Sin(rad)}
}

type pairKey struct{ s, t int }

func pairs(matches []types.SkillMatch) map[pairKey]bool {
	out := make(map[pairKey]bool, len(matches))
	for _, m := range matches {
		out[pairKey{m.SourceIndex, m.TargetIndex}] = true
	}
	return out
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  Node.JS ", want: "nodejs"},
		{input: "Python 3", want: "py 3"},
		{input: "TypeScript", want: "ts"},
		{input: "JavaScript", want: "js"},
		{input: "Machine   Learning", want: "machine learning"},
		{input: "C++", want: "c"},
		{input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.input))
		})
	}
}

func TestMatch_Exact(t *testing.T) {
	m := New(nil)

	result, err := m.Match(context.Background(), []string{"Python", "React"}, []string{"python", "REACT", "Java"}, types.StrategyExact, 0)
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "Python", result.Matches[0].Source)
	assert.Equal(t, "python", result.Matches[0].Target)
	assert.Equal(t, "React", result.Matches[1].Source)
	assert.Equal(t, "REACT", result.Matches[1].Target)
	for _, mt := range result.Matches {
		assert.Equal(t, 1.0, mt.Confidence)
		assert.Equal(t, types.StrategyExact, mt.Strategy)
		assert.Nil(t, mt.SubScores)
	}
	assert.Equal(t, []string{}, result.UnmatchedSource)
	assert.Equal(t, []string{"Java"}, result.UnmatchedTarget)
	assert.Equal(t, 1.0, result.AverageConfidence)
}

func TestMatch_ExactIsOneToOne(t *testing.T) {
	m := New(nil)

	result, err := m.Match(context.Background(), []string{"go", "Go"}, []string{"GO"}, types.StrategyExact, 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "go", result.Matches[0].Source)
	assert.Equal(t, []string{"Go"}, result.UnmatchedSource)
	assert.Empty(t, result.UnmatchedTarget)
}

func TestMatch_ExactUsesShorthands(t *testing.T) {
	m := New(nil)

	result, err := m.Match(context.Background(), []string{"JavaScript", "Node.js"}, []string{"nodejs", "js"}, types.StrategyExact, 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "js", result.Matches[0].Target)
	assert.Equal(t, "nodejs", result.Matches[1].Target)
}

func TestMatch_Fuzzy(t *testing.T) {
	m := New(nil)

	result, err := m.Match(context.Background(), []string{"Kubernetes"}, []string{"Docker", "kubernets"}, types.StrategyFuzzy, 0.7)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	mt := result.Matches[0]
	assert.Equal(t, "kubernets", mt.Target)
	assert.Equal(t, types.StrategyFuzzy, mt.Strategy)
	require.NotNil(t, mt.SubScores)
	assert.InDelta(t, combined(*mt.SubScores), mt.Confidence, 1e-9)
	assert.GreaterOrEqual(t, mt.Confidence, 0.7)
	assert.Equal(t, []string{"Docker"}, result.UnmatchedTarget)
}

func TestMatch_FuzzyThresholdIsMonotonic(t *testing.T) {
	m := New(nil)
	source := []string{"Kubernetes", "PostgreSQL", "React Native", "Golang"}
	target := []string{"kubernets", "postgres", "react", "go lang", "Terraform"}

	previous := len(source) + 1
	for _, threshold := range []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95} {
		result, err := m.Match(context.Background(), source, target, types.StrategyFuzzy, threshold)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Matches), previous, "threshold %.2f", threshold)
		for _, mt := range result.Matches {
			assert.GreaterOrEqual(t, mt.Confidence, threshold)
		}
		previous = len(result.Matches)
	}
}

func TestMatch_HybridContainsExact(t *testing.T) {
	m := New(nil)
	source := []string{"Python", "JavaScript", "Kubernetes", "Go"}
	target := []string{"golang", "kubernets", "js", "python"}

	exact, err := m.Match(context.Background(), source, target, types.StrategyExact, 0.7)
	require.NoError(t, err)
	hybrid, err := m.Match(context.Background(), source, target, types.StrategyHybrid, 0.7)
	require.NoError(t, err)

	hybridPairs := pairs(hybrid.Matches)
	for key := range pairs(exact.Matches) {
		assert.True(t, hybridPairs[key], "exact pair %v missing from hybrid", key)
	}
	assert.Greater(t, len(hybrid.Matches), len(exact.Matches))
}

func TestMatch_Semantic(t *testing.T) {
	emb := stubEmbedder{
		"react":      {1, 0, 0},
		"docker":     {0, 1, 0},
		"reactjs":    {0.95, 0.05, 0},
		"containers": {0.1, 0.9, 0},
	}
	m := New(emb)

	result, err := m.Match(context.Background(), []string{"React", "Docker", "Excel"}, []string{"Containers", "ReactJS"}, types.StrategySemantic, 0.7)
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "React", result.Matches[0].Source)
	assert.Equal(t, "ReactJS", result.Matches[0].Target)
	assert.Equal(t, "Docker", result.Matches[1].Source)
	assert.Equal(t, "Containers", result.Matches[1].Target)
	assert.Equal(t, []string{"Excel"}, result.UnmatchedSource)
	assert.Empty(t, result.UnmatchedTarget)
}

func TestMatch_SemanticRequiresMutualBest(t *testing.T) {
	// a1 prefers b2, but b2 prefers a2; a1 settles for b1 in a later round
	emb := stubEmbedder{
		"a1": angle(30),
		"a2": angle(-10),
		"b1": angle(65),
		"b2": angle(0),
	}
	m := New(emb)

	result, err := m.Match(context.Background(), []string{"a1", "a2"}, []string{"b1", "b2"}, types.StrategySemantic, 0.7)
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "a2", result.Matches[0].Source)
	assert.Equal(t, "b2", result.Matches[0].Target)
	assert.Equal(t, "a1", result.Matches[1].Source)
	assert.Equal(t, "b1", result.Matches[1].Target)
}

func TestMatch_SemanticTieBreak(t *testing.T) {
	emb := stubEmbedder{
		"beta":  {1, 0},
		"alpha": {1, 0},
		"gamma": {1, 0},
	}
	m := New(emb)

	for i := 0; i < 5; i++ {
		result, err := m.Match(context.Background(), []string{"beta", "alpha"}, []string{"gamma"}, types.StrategySemantic, 0.7)
		require.NoError(t, err)
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "alpha", result.Matches[0].Source)
		assert.Equal(t, []string{"beta"}, result.UnmatchedSource)
	}
}

func TestMatch_SemanticBelowThreshold(t *testing.T) {
	m := New(stubEmbedder{"x": angle(0), "y": angle(80)})

	result, err := m.Match(context.Background(), []string{"x"}, []string{"y"}, types.StrategySemantic, 0.7)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Equal(t, 0.0, result.AverageConfidence)
}

func TestMatch_UnknownStrategy(t *testing.T) {
	m := New(nil)

	result, err := m.Match(context.Background(), []string{"Python"}, []string{"python"}, types.Strategy("telepathy"), 0.7)
	var unknown *UnknownStrategyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "telepathy", unknown.Strategy)
	require.NotNil(t, result)
	assert.Empty(t, result.Matches)
	assert.Equal(t, []string{"Python"}, result.UnmatchedSource)
	assert.Equal(t, []string{"python"}, result.UnmatchedTarget)
}

func TestMatch_EmptyInputs(t *testing.T) {
	m := New(nil)

	for _, strategy := range []types.Strategy{types.StrategyExact, types.StrategyFuzzy, types.StrategySemantic, types.StrategyHybrid} {
		result, err := m.Match(context.Background(), nil, []string{"Go"}, strategy, 0.7)
		require.NoError(t, err, strategy)
		assert.Empty(t, result.Matches)
		assert.Equal(t, []string{"Go"}, result.UnmatchedTarget)
	}
}

func TestMatch_CancelledContext(t *testing.T) {
	m := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := m.Match(ctx, []string{"Kubernetes"}, []string{"kubernets"}, types.StrategyFuzzy, 0.7)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Matches)
}

func TestFindBestMatches(t *testing.T) {
	m := New(nil)
	candidates := []string{"Python", "python3", "Java", "Pyth"}

	top := m.FindBestMatches("python", candidates, 2, 0)
	require.Len(t, top, 2)
	assert.Equal(t, types.RankedCandidate{Skill: "Python", Confidence: 1.0, MatchType: "exact"}, top[0])
	assert.Equal(t, "python3", top[1].Skill)
	assert.Equal(t, "fuzzy", top[1].MatchType)

	all := m.FindBestMatches("python", candidates, 10, 0.6)
	require.Len(t, all, 3)
	assert.Equal(t, "Pyth", all[2].Skill)
	assert.InDelta(t, 0.75, all[2].Confidence, 1e-9)

	assert.Empty(t, m.FindBestMatches("  ", candidates, 5, 0.6))
}

func TestOverlap(t *testing.T) {
	m := New(nil)
	ctx := context.Background()

	t.Run("identical lists", func(t *testing.T) {
		skills := []string{"Python", "React", "Docker", "C++", "C#"}
		overlap, err := m.Overlap(ctx, skills, skills)
		require.NoError(t, err)
		assert.Equal(t, 1.0, overlap.OverlapScore)
		assert.Equal(t, 1.0, overlap.Precision)
		assert.Equal(t, 1.0, overlap.Recall)
		assert.Equal(t, 1.0, overlap.F1Score)
		assert.Equal(t, len(skills), overlap.MatchedCount)
	})

	t.Run("partial", func(t *testing.T) {
		overlap, err := m.Overlap(ctx, []string{"Python", "Go"}, []string{"python", "Rust", "Java", "Docker"})
		require.NoError(t, err)
		assert.Equal(t, 1, overlap.MatchedCount)
		assert.Equal(t, 0.5, overlap.Precision)
		assert.Equal(t, 0.25, overlap.Recall)
		assert.Equal(t, 0.25, overlap.OverlapScore)
		assert.InDelta(t, 1.0/3.0, overlap.F1Score, 1e-9)
		assert.Equal(t, 2, overlap.TotalSource)
		assert.Equal(t, 4, overlap.TotalTarget)
	})

	t.Run("empty", func(t *testing.T) {
		overlap, err := m.Overlap(ctx, nil, []string{"Go"})
		require.NoError(t, err)
		assert.Zero(t, overlap.OverlapScore)
		assert.Zero(t, overlap.F1Score)
		assert.Equal(t, []types.SkillMatch{}, overlap.Matches)
	})
}
