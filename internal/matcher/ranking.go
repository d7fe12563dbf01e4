package matcher

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/fuzzy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// FindBestMatches ranks candidates against skill by the best of exact,
// ratio and partial ratio. topK <= 0 and a threshold outside (0, 1] use the
// configured defaults.
func (m *Matcher) FindBestMatches(skill string, candidates []string, topK int, threshold float64) []types.RankedCandidate {
	if topK <= 0 {
		topK = m.cfg.TopK
	}
	if threshold <= 0 || threshold > 1 {
		threshold = m.cfg.BestMatchThreshold
	}
	ranked := []types.RankedCandidate{}
	if strings.TrimSpace(skill) == "" {
		return ranked
	}

	lower := strings.ToLower(skill)
	for _, c := range candidates {
		exact := strings.ToLower(c) == lower
		confidence := max(fuzzy.Ratio(skill, c), fuzzy.PartialRatio(skill, c))
		matchType := string(types.StrategyFuzzy)
		if exact {
			confidence, matchType = 1.0, string(types.StrategyExact)
		}
		if confidence < threshold {
			continue
		}
		ranked = append(ranked, types.RankedCandidate{Skill: c, Confidence: confidence, MatchType: matchType})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// Overlap compares two skill lists with hybrid matching. Precision is
// relative to a, recall to b.
func (m *Matcher) Overlap(ctx context.Context, a, b []string) (*types.SkillOverlap, error) {
	overlap := &types.SkillOverlap{
		TotalSource: len(a),
		TotalTarget: len(b),
		Matches:     []types.SkillMatch{},
	}
	if len(a) == 0 || len(b) == 0 {
		return overlap, nil
	}

	result, err := m.Match(ctx, a, b, types.StrategyHybrid, m.cfg.OverlapThreshold)
	if err != nil {
		m.logger.Error("failed to calculate skill overlap", zap.Error(err))
		return overlap, err
	}

	matched := float64(len(result.Matches))
	overlap.MatchedCount = len(result.Matches)
	overlap.Matches = result.Matches
	overlap.OverlapScore = matched / float64(max(len(a), len(b)))
	overlap.Precision = matched / float64(len(a))
	overlap.Recall = matched / float64(len(b))
	if sum := overlap.Precision + overlap.Recall; sum > 0 {
		overlap.F1Score = 2 * overlap.Precision * overlap.Recall / sum
	}
	return overlap, nil
}
