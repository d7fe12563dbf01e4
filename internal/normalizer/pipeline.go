package normalizer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/fuzzy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// Resolution is a successful match of one input against the taxonomy
type Resolution struct {
	Skill      types.CanonicalSkill
	Confidence float64
	Strategy   types.Strategy
	// Matched is the taxonomy text (name or alias) that produced the hit
	Matched string
}

// query is what every strategy sees for one input
type query struct {
	// text is the preprocessed input, raw the trimmed original
	text string
	raw  string
	snap *snapshot
}

// strategy resolves a query or returns nil to fall through to the next one
type strategy struct {
	name    types.Strategy
	resolve func(ctx context.Context, q query) *Resolution
}

// candidate is one name or alias of a snapshot skill
type candidate struct {
	text  string
	lower string
	skill int
}

// snapshot is a read-only copy of the taxonomy shared by one batch
type snapshot struct {
	skills     []types.CanonicalSkill
	candidates []candidate
}

func newSnapshot(skills []types.CanonicalSkill) *snapshot {
	s := &snapshot{skills: skills}
	for i, skill := range skills {
		s.candidates = append(s.candidates, candidate{text: skill.Name, lower: strings.ToLower(skill.Name), skill: i})
		for _, alias := range skill.Aliases {
			s.candidates = append(s.candidates, candidate{text: alias, lower: strings.ToLower(alias), skill: i})
		}
	}
	return s
}

func (n *Normalizer) loadSnapshot(ctx context.Context) *snapshot {
	skills, err := n.store.GetAllSkills(ctx)
	if err != nil {
		n.logger.Warn("taxonomy unavailable, fuzzy and semantic matching disabled", zap.Error(err))
		return newSnapshot(nil)
	}
	return newSnapshot(skills)
}

// buildPipeline returns the strategies in the order they are tried
func (n *Normalizer) buildPipeline() []strategy {
	return []strategy{
		{name: types.StrategyExact, resolve: n.resolveExact},
		{name: types.StrategyFuzzy, resolve: n.resolveFuzzy},
		{name: types.StrategySemantic, resolve: n.resolveSemantic},
		{name: types.StrategyPattern, resolve: n.resolvePattern},
	}
}

// lookup asks the store for a case-insensitive name or alias hit.
// Store failures count as a miss.
func (n *Normalizer) lookup(ctx context.Context, text string) *types.CanonicalSkill {
	if text == "" {
		return nil
	}
	skill, err := n.store.FindExact(ctx, text)
	if err != nil {
		n.logger.Warn("exact lookup failed", zap.String("skill", text), zap.Error(err))
		return nil
	}
	return skill
}

func (n *Normalizer) resolveExact(ctx context.Context, q query) *Resolution {
	for _, text := range []string{q.text, q.raw} {
		if skill := n.lookup(ctx, text); skill != nil {
			return &Resolution{Skill: *skill, Confidence: n.cfg.ExactConfidence, Strategy: types.StrategyExact, Matched: text}
		}
		if q.raw == q.text {
			break
		}
	}
	return nil
}

func (n *Normalizer) resolveFuzzy(_ context.Context, q query) *Resolution {
	input := strings.ToLower(q.text)
	if input == "" {
		return nil
	}

	best, bestScore := -1, 0.0
	for i, c := range q.snap.candidates {
		score := max(
			fuzzy.Ratio(input, c.lower),
			fuzzy.PartialRatio(input, c.lower),
			fuzzy.TokenSortRatio(input, c.lower),
		)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < n.cfg.FuzzyThreshold {
		return nil
	}
	c := q.snap.candidates[best]
	return &Resolution{Skill: q.snap.skills[c.skill], Confidence: bestScore, Strategy: types.StrategyFuzzy, Matched: c.text}
}

func (n *Normalizer) resolveSemantic(_ context.Context, q query) *Resolution {
	if q.text == "" || len(q.snap.candidates) == 0 {
		return nil
	}
	vec := n.embedder.Embed(q.text)

	best, bestScore := -1, 0.0
	for i, c := range q.snap.candidates {
		score := embedding.Cosine(vec, n.embedder.Embed(c.text))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < n.cfg.SemanticThreshold {
		return nil
	}
	c := q.snap.candidates[best]
	return &Resolution{Skill: q.snap.skills[c.skill], Confidence: min(bestScore, 1.0), Strategy: types.StrategySemantic, Matched: c.text}
}

func (n *Normalizer) resolvePattern(ctx context.Context, q query) *Resolution {
	rewritten := Rewrite(q.text)
	if rewritten == q.text {
		return nil
	}
	skill := n.lookup(ctx, rewritten)
	if skill == nil {
		return nil
	}
	return &Resolution{Skill: *skill, Confidence: n.cfg.PatternConfidence, Strategy: types.StrategyPattern, Matched: rewritten}
}

// resolve runs the pipeline and returns the first hit
func (n *Normalizer) resolve(ctx context.Context, q query) *Resolution {
	for _, step := range n.pipeline {
		if res := step.resolve(ctx, q); res != nil {
			n.logger.Debug("skill resolved",
				zap.String("input", q.raw),
				zap.String("strategy", string(step.name)),
				zap.String("canonical", res.Skill.Name),
				zap.Float64("confidence", res.Confidence))
			return res
		}
	}
	return nil
}
