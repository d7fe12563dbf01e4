// Package cluster groups related skills by embedding similarity (k-means),
// textual similarity (TF-IDF with DBSCAN) or taxonomy category.
package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// UnknownCategory groups skills the taxonomy doesn't know
const UnknownCategory = "unknown"

// Config holds clustering defaults
type Config struct {
	MinClusterSize int     `mapstructure:"min_cluster_size" validate:"gte=1"`
	MaxClusters    int     `mapstructure:"max_clusters" validate:"gte=1"`
	Eps            float64 `mapstructure:"eps" validate:"gt=0,lte=1"`
	MinSamples     int     `mapstructure:"min_samples" validate:"gte=1"`
	Seed           uint64  `mapstructure:"seed"`
	Inits          int     `mapstructure:"inits" validate:"gte=1"`
	MaxIterations  int     `mapstructure:"max_iterations" validate:"gte=1"`
	Concurrency    int     `mapstructure:"concurrency"`
}

// DefaultConfig returns the standard clustering settings
func DefaultConfig() Config {
	return Config{
		MinClusterSize: 2,
		MaxClusters:    10,
		Eps:            0.5,
		MinSamples:     2,
		Seed:           42,
		Inits:          10,
		MaxIterations:  300,
		Concurrency:    8,
	}
}

// UnknownMethodError is returned for an unsupported clustering method
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown clustering method: %q", e.Method)
}

// Options narrows a single clustering run; zero values use the Config defaults
type Options struct {
	MinClusterSize int
	MaxClusters    int
}

// Clusterer groups skills. Safe for concurrent use.
type Clusterer struct {
	store    taxonomy.Store
	embedder embedding.Embedder
	cfg      Config
	logger   *zap.Logger
}

// Option configures a Clusterer
type Option func(*Clusterer)

// WithConfig overrides the defaults
func WithConfig(cfg Config) Option {
	return func(c *Clusterer) { c.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Clusterer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Clusterer. A nil embedder uses the hash embedder.
func New(store taxonomy.Store, embedder embedding.Embedder, opts ...Option) *Clusterer {
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(embedding.DefaultDimension)
	}
	c := &Clusterer{store: store, embedder: embedder, cfg: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.Concurrency <= 0 {
		c.cfg.Concurrency = 1
	}
	return c
}

// Cluster groups skills with method. Duplicates are collapsed first. Clusters
// smaller than the minimum size are dropped and the rest come back largest
// first. Too few skills yields an empty list, not an error.
func (c *Clusterer) Cluster(ctx context.Context, skills []string, method types.ClusterMethod, opts Options) ([]types.Cluster, error) {
	minSize, maxClusters := opts.MinClusterSize, opts.MaxClusters
	if minSize <= 0 {
		minSize = c.cfg.MinClusterSize
	}
	if maxClusters <= 0 {
		maxClusters = c.cfg.MaxClusters
	}

	unique := dedupe(skills)
	if len(unique) == 0 || len(unique) < minSize {
		return []types.Cluster{}, nil
	}

	var (
		clusters []types.Cluster
		err      error
	)
	switch method {
	case types.ClusterEmbedding:
		clusters, err = c.byEmbedding(ctx, unique, maxClusters)
	case types.ClusterTextual:
		clusters = c.byText(unique)
	case types.ClusterCategory:
		clusters = c.byCategory(ctx, unique)
	case types.ClusterHybrid:
		clusters, err = c.hybrid(ctx, unique, maxClusters)
	default:
		return []types.Cluster{}, &UnknownMethodError{Method: string(method)}
	}
	if err != nil {
		return []types.Cluster{}, fmt.Errorf("failed to cluster skills: %w", err)
	}

	out := finish(clusters, minSize)
	c.logger.Info("clustered skills",
		zap.String("method", string(method)),
		zap.Int("skills", len(unique)),
		zap.Int("clusters", len(out)))
	return out, nil
}

func dedupe(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// finish drops small clusters, sorts by size and fills in representatives
func finish(clusters []types.Cluster, minSize int) []types.Cluster {
	out := make([]types.Cluster, 0, len(clusters))
	for _, cl := range clusters {
		if len(cl.Skills) < minSize {
			continue
		}
		cl.Size = len(cl.Skills)
		cl.Representative = representative(cl.Skills)
		out = append(out, cl)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})
	return out
}

// representative is the shortest member, earliest on ties
func representative(skills []string) string {
	best := ""
	for i, s := range skills {
		if i == 0 || utf8.RuneCountInString(s) < utf8.RuneCountInString(best) {
			best = s
		}
	}
	return best
}

// group collects skills by label in order of first appearance. Labels below
// zero are skipped.
func group(skills []string, labels []int) ([]int, map[int][]string) {
	var order []int
	members := make(map[int][]string)
	for i, l := range labels {
		if l < 0 {
			continue
		}
		if _, ok := members[l]; !ok {
			order = append(order, l)
		}
		members[l] = append(members[l], skills[i])
	}
	return order, members
}

func (c *Clusterer) byEmbedding(ctx context.Context, skills []string, maxClusters int) ([]types.Cluster, error) {
	vectors, err := embedding.EmbedAll(ctx, c.embedder, skills, c.cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	k := min(maxClusters, len(skills))
	res := kmeans(vectors, k, c.cfg.Seed, c.cfg.Inits, c.cfg.MaxIterations)

	order, members := group(skills, res.labels)
	clusters := make([]types.Cluster, 0, len(order))
	for n, l := range order {
		clusters = append(clusters, types.Cluster{
			ID:       fmt.Sprintf("%s_%d", types.ClusterEmbedding, n),
			Skills:   members[l],
			Method:   types.ClusterEmbedding,
			Centroid: res.centroids[l],
		})
	}
	return clusters, nil
}

func (c *Clusterer) byText(skills []string) []types.Cluster {
	vectors := tfidf(skills)
	dist := make([][]float64, len(skills))
	for i := range skills {
		dist[i] = make([]float64, len(skills))
		for j := range skills {
			if i != j {
				dist[i][j] = 1 - sparseDot(vectors[i], vectors[j])
			}
		}
	}

	order, members := group(skills, dbscan(dist, c.cfg.Eps, c.cfg.MinSamples))
	clusters := make([]types.Cluster, 0, len(order))
	for n, l := range order {
		clusters = append(clusters, types.Cluster{
			ID:     fmt.Sprintf("%s_%d", types.ClusterTextual, n),
			Skills: members[l],
			Method: types.ClusterTextual,
		})
	}
	return clusters
}

// categoryLookup maps lowercased names, then aliases, to categories.
// An unavailable store yields an empty lookup.
func (c *Clusterer) categoryLookup(ctx context.Context) map[string]string {
	lookup := make(map[string]string)
	if c.store == nil {
		return lookup
	}
	all, err := c.store.GetAllSkills(ctx)
	if err != nil {
		c.logger.Warn("taxonomy unavailable, all skills grouped as unknown", zap.Error(err))
		return lookup
	}
	for _, s := range all {
		if key := taxonomy.Key(s.Name); lookup[key] == "" {
			lookup[key] = s.Category
		}
	}
	for _, s := range all {
		for _, a := range s.Aliases {
			if key := taxonomy.Key(a); lookup[key] == "" {
				lookup[key] = s.Category
			}
		}
	}
	return lookup
}

func (c *Clusterer) byCategory(ctx context.Context, skills []string) []types.Cluster {
	lookup := c.categoryLookup(ctx)

	var order []string
	members := make(map[string][]string)
	for _, s := range skills {
		cat, ok := lookup[taxonomy.Key(s)]
		if !ok {
			cat = UnknownCategory
		}
		if _, seen := members[cat]; !seen {
			order = append(order, cat)
		}
		members[cat] = append(members[cat], s)
	}

	clusters := make([]types.Cluster, 0, len(order))
	for _, cat := range order {
		clusters = append(clusters, types.Cluster{
			ID:       fmt.Sprintf("%s_%s", types.ClusterCategory, cat),
			Skills:   members[cat],
			Method:   types.ClusterCategory,
			Category: cat,
		})
	}
	return clusters
}

// hybrid prefers category groups and falls back to embeddings when there are
// too many of them
func (c *Clusterer) hybrid(ctx context.Context, skills []string, maxClusters int) ([]types.Cluster, error) {
	clusters := c.byCategory(ctx, skills)
	if len(clusters) > 0 && len(clusters) <= maxClusters {
		return clusters, nil
	}
	c.logger.Debug("too many category clusters, falling back to embeddings",
		zap.Int("categories", len(clusters)), zap.Int("max_clusters", maxClusters))
	return c.byEmbedding(ctx, skills, maxClusters)
}
