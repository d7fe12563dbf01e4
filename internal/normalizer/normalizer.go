// Package normalizer resolves raw skill mentions to canonical taxonomy skills.
//
// Each input is preprocessed and then run through an ordered list of
// strategies (exact, fuzzy, semantic, pattern); the first hit wins. Hits are
// cached per preprocessed text and source.
package normalizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/logging"
	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// sampleSize caps how many skills a log line lists
const sampleSize = 5

// Config holds the confidence thresholds and batch fan-out
type Config struct {
	ExactConfidence   float64 `mapstructure:"exact_confidence" validate:"gt=0,lte=1"`
	FuzzyThreshold    float64 `mapstructure:"fuzzy_threshold" validate:"gt=0,lte=1"`
	SemanticThreshold float64 `mapstructure:"semantic_threshold" validate:"gt=0,lte=1"`
	PatternConfidence float64 `mapstructure:"pattern_confidence" validate:"gt=0,lte=1"`
	Concurrency       int     `mapstructure:"concurrency"`
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		ExactConfidence:   0.95,
		FuzzyThreshold:    0.85,
		SemanticThreshold: 0.75,
		PatternConfidence: 0.80,
		Concurrency:       8,
	}
}

// Normalizer resolves skills against a taxonomy store. Safe for concurrent use.
type Normalizer struct {
	store    taxonomy.Store
	embedder embedding.Embedder
	recorder MappingRecorder
	cfg      Config
	logger   *zap.Logger
	pipeline []strategy

	mu    sync.RWMutex
	cache map[string]Resolution
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithConfig overrides the default thresholds
func WithConfig(cfg Config) Option {
	return func(n *Normalizer) { n.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithRecorder sets where learned mappings are persisted
func WithRecorder(r MappingRecorder) Option {
	return func(n *Normalizer) {
		if r != nil {
			n.recorder = r
		}
	}
}

// New creates a Normalizer. A nil embedder uses the hash embedder.
func New(store taxonomy.Store, embedder embedding.Embedder, opts ...Option) *Normalizer {
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(embedding.DefaultDimension)
	}
	if _, ok := embedder.(*embedding.Cached); !ok {
		embedder = embedding.NewCached(embedder)
	}

	n := &Normalizer{
		store:    store,
		embedder: embedder,
		recorder: NewMemoryRecorder(),
		cfg:      DefaultConfig(),
		logger:   zap.NewNop(),
		cache:    make(map[string]Resolution),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.cfg.Concurrency <= 0 {
		n.cfg.Concurrency = 1
	}
	n.pipeline = n.buildPipeline()
	return n
}

// Normalize resolves a single skill. It returns false when nothing matched.
func (n *Normalizer) Normalize(ctx context.Context, skill, source string) (*types.NormalizedSkill, bool) {
	return n.normalizeOne(ctx, skill, source, nil)
}

// NormalizeSkills resolves every skill with bounded concurrency. Output order
// mirrors input order. A failing item is reported as unmatched. If ctx is
// cancelled, items not yet processed are reported as unmatched and the
// partial result is returned together with ctx.Err().
func (n *Normalizer) NormalizeSkills(ctx context.Context, skills []string, source string) (*types.NormalizeResult, error) {
	result := &types.NormalizeResult{
		NormalizedSkills: []types.NormalizedSkill{},
		Unmatched:        []string{},
	}
	if len(skills) == 0 {
		return result, nil
	}

	n.logger.Info("normalizing skills",
		zap.Int("count", len(skills)),
		zap.Strings("sample", logging.Sample(skills, sampleSize)),
		zap.String("source", source))
	snap := n.loadSnapshot(ctx)

	resolved := make([]*types.NormalizedSkill, len(skills))
	var g errgroup.Group
	g.SetLimit(n.cfg.Concurrency)
	for i, skill := range skills {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if ns, ok := n.normalizeOne(ctx, skill, source, snap); ok {
				resolved[i] = ns
			}
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for i, ns := range resolved {
		if ns == nil {
			result.Unmatched = append(result.Unmatched, skills[i])
			continue
		}
		result.NormalizedSkills = append(result.NormalizedSkills, *ns)
		total += ns.Confidence
	}
	if len(result.NormalizedSkills) > 0 {
		result.ConfidenceScore = total / float64(len(result.NormalizedSkills))
	}

	n.logger.Info("normalized skills",
		zap.Int("matched", len(result.NormalizedSkills)),
		zap.Strings("unmatched_sample", logging.Sample(result.Unmatched, sampleSize)),
		zap.Int("unmatched", len(result.Unmatched)),
		zap.Float64("confidence", result.ConfidenceScore))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// normalizeOne resolves one input; a panic inside a strategy counts as unmatched
func (n *Normalizer) normalizeOne(ctx context.Context, skill, source string, snap *snapshot) (ns *types.NormalizedSkill, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("failed to normalize skill", zap.String("skill", skill), zap.Any("panic", r))
			ns, ok = nil, false
		}
	}()

	raw := strings.TrimSpace(skill)
	if raw == "" {
		return nil, false
	}
	text := Preprocess(raw)
	textKey, rawKey := cacheKey(text, source), rawCacheKey(raw, source)

	res, hit := n.cached(textKey)
	if !hit {
		res, hit = n.cached(rawKey)
	}
	if !hit {
		if snap == nil {
			snap = n.loadSnapshot(ctx)
		}
		found := n.resolve(ctx, query{text: text, raw: raw, snap: snap})
		if found == nil {
			return nil, false
		}
		res = *found
		// Only an exact hit on the preprocessed text is shared by every raw
		// spelling; anything later in the pipeline depends on raw missing too.
		if res.Strategy == types.StrategyExact && res.Matched == text {
			n.remember(textKey, res)
		} else {
			n.remember(rawKey, res)
		}
	}

	return &types.NormalizedSkill{
		Original:     raw,
		Canonical:    res.Skill.Name,
		Category:     res.Skill.Category,
		Confidence:   res.Confidence,
		Aliases:      append([]string{}, res.Skill.Aliases...),
		Strategy:     res.Strategy,
		Source:       source,
		Metadata:     map[string]any{"match_type": string(res.Strategy), "source": source},
		NormalizedAt: time.Now(),
	}, true
}

func cacheKey(text, source string) string {
	if source == "" {
		source = "unknown"
	}
	return fmt.Sprintf("%s:%s", text, source)
}

// rawCacheKey keys results that depend on the raw spelling
func rawCacheKey(raw, source string) string {
	return cacheKey("raw\x00"+raw, source)
}

func (n *Normalizer) cached(key string) (Resolution, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, ok := n.cache[key]
	return res, ok
}

func (n *Normalizer) remember(key string, res Resolution) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cache[key] = res
}

// ClearCache drops every cached resolution
func (n *Normalizer) ClearCache() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cache = make(map[string]Resolution)
	n.logger.Info("normalization cache cleared")
}

// CacheSize returns the number of cached resolutions
func (n *Normalizer) CacheSize() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.cache)
}
