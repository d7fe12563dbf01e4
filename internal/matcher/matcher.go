// Package matcher pairs skills from two lists using exact, fuzzy, semantic or
// hybrid strategies, and derives best-match rankings and overlap metrics.
package matcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// Config holds matcher defaults
type Config struct {
	Threshold          float64 `mapstructure:"threshold" validate:"gt=0,lte=1"`
	BestMatchThreshold float64 `mapstructure:"best_match_threshold" validate:"gt=0,lte=1"`
	TopK               int     `mapstructure:"top_k" validate:"gte=1"`
	OverlapThreshold   float64 `mapstructure:"overlap_threshold" validate:"gt=0,lte=1"`
	Concurrency        int     `mapstructure:"concurrency"`
}

// DefaultConfig returns the standard matcher settings
func DefaultConfig() Config {
	return Config{
		Threshold:          0.7,
		BestMatchThreshold: 0.6,
		TopK:               5,
		OverlapThreshold:   0.7,
		Concurrency:        8,
	}
}

// Matcher matches skill lists. Safe for concurrent use.
type Matcher struct {
	embedder embedding.Embedder
	cfg      Config
	logger   *zap.Logger
}

// Option configures a Matcher
type Option func(*Matcher)

// WithConfig overrides the defaults
func WithConfig(cfg Config) Option {
	return func(m *Matcher) { m.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Matcher. A nil embedder uses the hash embedder.
func New(embedder embedding.Embedder, opts ...Option) *Matcher {
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(embedding.DefaultDimension)
	}
	m := &Matcher{embedder: embedder, cfg: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.cfg.Concurrency <= 0 {
		m.cfg.Concurrency = 1
	}
	return m
}

// Match pairs source skills with target skills. A threshold outside (0, 1]
// uses the configured default. An unknown strategy leaves everything
// unmatched and returns *UnknownStrategyError alongside the result.
func (m *Matcher) Match(ctx context.Context, source, target []string, strategy types.Strategy, threshold float64) (*types.MatchResult, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = m.cfg.Threshold
	}
	src, tgt := prepare(source), prepare(target)

	var (
		matches []types.SkillMatch
		err     error
	)
	switch strategy {
	case types.StrategyExact:
		matches = exactMatches(src, tgt)
	case types.StrategyFuzzy:
		matches, err = m.fuzzyMatches(ctx, src, tgt, threshold)
	case types.StrategySemantic:
		matches, err = m.semanticMatches(ctx, src, tgt, threshold)
	case types.StrategyHybrid:
		matches, err = m.hybridMatches(ctx, src, tgt, threshold)
	default:
		m.logger.Warn("unknown matching strategy", zap.String("strategy", string(strategy)))
		return buildResult(source, target, nil), &UnknownStrategyError{Strategy: string(strategy)}
	}
	if err != nil {
		return buildResult(source, target, nil), &MatchError{Message: "failed to match skills", Cause: err}
	}

	result := buildResult(source, target, matches)
	m.logger.Info("matched skills",
		zap.String("strategy", string(strategy)),
		zap.Int("source", len(source)),
		zap.Int("target", len(target)),
		zap.Int("matches", len(result.Matches)),
		zap.Float64("average_confidence", result.AverageConfidence))
	return result, nil
}

// buildResult reports matches with every unpaired item in input order
func buildResult(source, target []string, matches []types.SkillMatch) *types.MatchResult {
	usedSource := make([]bool, len(source))
	usedTarget := make([]bool, len(target))
	result := &types.MatchResult{
		Matches:         []types.SkillMatch{},
		UnmatchedSource: []string{},
		UnmatchedTarget: []string{},
	}

	var total float64
	for _, mt := range matches {
		usedSource[mt.SourceIndex] = true
		usedTarget[mt.TargetIndex] = true
		result.Matches = append(result.Matches, mt)
		total += mt.Confidence
	}
	for i, s := range source {
		if !usedSource[i] {
			result.UnmatchedSource = append(result.UnmatchedSource, s)
		}
	}
	for j, t := range target {
		if !usedTarget[j] {
			result.UnmatchedTarget = append(result.UnmatchedTarget, t)
		}
	}
	if len(result.Matches) > 0 {
		result.AverageConfidence = total / float64(len(result.Matches))
	}
	return result
}

func newMatch(s, t item, confidence float64, strategy types.Strategy) types.SkillMatch {
	return types.SkillMatch{
		Source:      s.orig,
		Target:      t.orig,
		Confidence:  confidence,
		Strategy:    strategy,
		SourceIndex: s.idx,
		TargetIndex: t.idx,
	}
}

// exactMatches pairs equal texts one to one; duplicate targets are consumed in order
func exactMatches(src, tgt []item) []types.SkillMatch {
	queue := make(map[string][]int, len(tgt))
	for j, t := range tgt {
		if t.text == "" {
			continue
		}
		queue[t.text] = append(queue[t.text], j)
	}

	var matches []types.SkillMatch
	for _, s := range src {
		q := queue[s.text]
		if len(q) == 0 {
			continue
		}
		queue[s.text] = q[1:]
		matches = append(matches, newMatch(s, tgt[q[0]], 1.0, types.StrategyExact))
	}
	return matches
}
