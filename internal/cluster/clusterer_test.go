package cluster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
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

func newTestClusterer(t *testing.T) *Clusterer {
	t.Helper()
	store, err := taxonomy.NewSeededMemoryStore(context.Background(), nil)
	require.NoError(t, err)
	return New(store, nil)
}

func TestCluster_Category(t *testing.T) {
	c := newTestClusterer(t)
	skills := []string{"Python", "Docker", "Go", "k8s", "React", "Underwater Basket Weaving", "Python"}

	clusters, err := c.Cluster(context.Background(), skills, types.ClusterCategory, Options{})
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	assert.Equal(t, "category_programming_languages", clusters[0].ID)
	assert.Equal(t, []string{"Python", "Go"}, clusters[0].Skills)
	assert.Equal(t, "programming_languages", clusters[0].Category)
	assert.Equal(t, "Go", clusters[0].Representative)
	assert.Equal(t, 2, clusters[0].Size)

	assert.Equal(t, "category_devops", clusters[1].ID)
	assert.Equal(t, []string{"Docker", "k8s"}, clusters[1].Skills)
	assert.Equal(t, "k8s", clusters[1].Representative)
}

func TestCluster_CategoryKeepsUnknown(t *testing.T) {
	c := newTestClusterer(t)

	clusters, err := c.Cluster(context.Background(), []string{"Knitting", "Origami", "Rust"}, types.ClusterCategory, Options{MinClusterSize: 1})
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "category_unknown", clusters[0].ID)
	assert.Equal(t, UnknownCategory, clusters[0].Category)
	assert.Equal(t, []string{"Knitting", "Origami"}, clusters[0].Skills)
}

type failingStore struct{ taxonomy.Store }

func (failingStore) GetAllSkills(context.Context) ([]types.CanonicalSkill, error) {
	return nil, errors.New("connection refused")
}

func TestCluster_CategoryStoreUnavailable(t *testing.T) {
	c := New(failingStore{}, nil)

	clusters, err := c.Cluster(context.Background(), []string{"Python", "Go"}, types.ClusterCategory, Options{})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, UnknownCategory, clusters[0].Category)
}

func TestCluster_TooFewSkills(t *testing.T) {
	c := newTestClusterer(t)

	for _, method := range []types.ClusterMethod{types.ClusterEmbedding, types.ClusterTextual, types.ClusterCategory, types.ClusterHybrid} {
		clusters, err := c.Cluster(context.Background(), nil, method, Options{})
		require.NoError(t, err)
		assert.Equal(t, []types.Cluster{}, clusters)

		clusters, err = c.Cluster(context.Background(), []string{"Python", "Python", "Go"}, method, Options{MinClusterSize: 3})
		require.NoError(t, err)
		assert.Empty(t, clusters, "duplicates don't count toward the minimum")
	}
}

func TestCluster_UnknownMethod(t *testing.T) {
	c := newTestClusterer(t)

	clusters, err := c.Cluster(context.Background(), []string{"a", "b"}, types.ClusterMethod("spectral"), Options{})
	var unknown *UnknownMethodError
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, clusters)
}

func TestCluster_Embedding(t *testing.T) {
	emb := stubEmbedder{
		"a": {1, 0},
		"b": {0.99, 0.1},
		"c": {0, 1},
		"d": {0.1, 0.99},
		"e": {0.05, 1},
	}
	c := New(nil, emb)

	clusters, err := c.Cluster(context.Background(), []string{"a", "b", "c", "d", "e"}, types.ClusterEmbedding, Options{MaxClusters: 2})
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	assert.ElementsMatch(t, []string{"c", "d", "e"}, clusters[0].Skills)
	assert.ElementsMatch(t, []string{"a", "b"}, clusters[1].Skills)
	for _, cl := range clusters {
		assert.Equal(t, types.ClusterEmbedding, cl.Method)
		assert.Len(t, cl.Centroid, 2)
	}
}

func TestCluster_EmbeddingIsDeterministic(t *testing.T) {
	c := newTestClusterer(t)
	skills := []string{"Python", "Java", "Go", "Rust", "Docker", "Kubernetes", "Terraform", "React", "Angular", "Vue.js"}

	first, err := c.Cluster(context.Background(), skills, types.ClusterEmbedding, Options{MaxClusters: 4})
	require.NoError(t, err)
	second, err := c.Cluster(context.Background(), skills, types.ClusterEmbedding, Options{MaxClusters: 4})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.LessOrEqual(t, len(first), 4)
}

func TestCluster_Textual(t *testing.T) {
	c := newTestClusterer(t)
	skills := []string{"React Native", "Excel", "react native", "Docker Swarm", "docker swarm", "it"}

	clusters, err := c.Cluster(context.Background(), skills, types.ClusterTextual, Options{})
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	assert.Equal(t, "textual_0", clusters[0].ID)
	assert.Equal(t, []string{"React Native", "react native"}, clusters[0].Skills)
	assert.Equal(t, "textual_1", clusters[1].ID)
	assert.Equal(t, []string{"Docker Swarm", "docker swarm"}, clusters[1].Skills)
}

func TestCluster_HybridFallsBackToEmbedding(t *testing.T) {
	c := newTestClusterer(t)
	skills := []string{"Python", "Go", "Docker", "Kubernetes"}

	clusters, err := c.Cluster(context.Background(), skills, types.ClusterHybrid, Options{MaxClusters: 10})
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, types.ClusterCategory, clusters[0].Method)

	clusters, err = c.Cluster(context.Background(), skills, types.ClusterHybrid, Options{MaxClusters: 1})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, types.ClusterEmbedding, clusters[0].Method)
	assert.ElementsMatch(t, skills, clusters[0].Skills)
}

func TestCluster_SubsetAndMinimumSize(t *testing.T) {
	c := newTestClusterer(t)
	skills := []string{
		"Python", "python programming", "Go", "Golang", "Docker", "Docker Compose",
		"Kubernetes", "React", "React Native", "PostgreSQL", "Excel", "Public Speaking",
	}
	input := make(map[string]bool)
	for _, s := range skills {
		input[s] = true
	}

	for _, method := range []types.ClusterMethod{types.ClusterEmbedding, types.ClusterTextual, types.ClusterCategory, types.ClusterHybrid} {
		for _, minSize := range []int{1, 2, 3} {
			clusters, err := c.Cluster(context.Background(), skills, method, Options{MinClusterSize: minSize, MaxClusters: 5})
			require.NoError(t, err)
			for i, cl := range clusters {
				assert.GreaterOrEqual(t, cl.Size, minSize, "%s", method)
				assert.Equal(t, len(cl.Skills), cl.Size)
				for _, s := range cl.Skills {
					assert.True(t, input[s], "%s produced unknown skill %q", method, s)
				}
				if i > 0 {
					assert.GreaterOrEqual(t, clusters[i-1].Size, cl.Size)
				}
			}
		}
	}
}
