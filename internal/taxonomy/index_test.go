package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

func indexedStore(t *testing.T) *IndexedStore {
	t.Helper()
	s, err := NewIndexedStore(context.Background(), seededStore(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIndexedStore_Search(t *testing.T) {
	ctx := context.Background()
	s := indexedStore(t)

	results, err := s.Search(ctx, "postgre", types.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "PostgreSQL", results[0].Skill.Name)

	typo, err := s.Search(ctx, "kubernets", types.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, typo)
	assert.Equal(t, "Kubernetes", typo[0].Skill.Name)
}

func TestIndexedStore_TracksWrites(t *testing.T) {
	ctx := context.Background()
	s := indexedStore(t)

	_, err := s.AddSkill(ctx, types.CanonicalSkill{Name: "Elasticsearch", Category: "databases", Aliases: []string{"elastic"}})
	require.NoError(t, err)

	results, err := s.Search(ctx, "elastic", types.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Elasticsearch", results[0].Skill.Name)

	name := "OpenSearch"
	aliases := []string{"opensearch"}
	require.NoError(t, s.UpdateSkill(ctx, "databases:Elasticsearch", types.SkillPatch{Name: &name, Aliases: &aliases}))

	results, err = s.Search(ctx, "opensearch", types.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "OpenSearch", results[0].Skill.Name)

	require.NoError(t, s.DeleteSkill(ctx, "databases:OpenSearch"))
	results, err = s.Search(ctx, "opensearch", types.SearchOptions{Threshold: 0.95})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexedStore_DelegatesLookups(t *testing.T) {
	ctx := context.Background()
	s := indexedStore(t)

	got, err := s.FindExact(ctx, "golang")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Go", got.Name)
}

func TestIndexedStore_LastUpdated(t *testing.T) {
	ctx := context.Background()
	s := indexedStore(t)
	before := s.LastUpdated()

	_, err := s.AddSkill(ctx, types.CanonicalSkill{Name: "Nomad", Category: "devops"})
	require.NoError(t, err)

	assert.False(t, s.LastUpdated().Before(before))
	assert.False(t, s.LastUpdated().IsZero())
}

func TestIndexedStore_SearchMatchesFullScan(t *testing.T) {
	ctx := context.Background()
	plain := seededStore(t)
	s := indexedStore(t)

	for _, q := range []string{"kubernetes docker", "postgre sql", "gitlab actions", "java", "cloud"} {
		t.Run(q, func(t *testing.T) {
			for _, opts := range []types.SearchOptions{{}, {Threshold: 0.5}, {Category: "devops"}} {
				want, err := plain.Search(ctx, q, opts)
				require.NoError(t, err)
				got, err := s.Search(ctx, q, opts)
				require.NoError(t, err)
				assert.Equal(t, scoresByID(want), scoresByID(got))
			}
		})
	}
}

func scoresByID(results []types.SearchResult) map[string]float64 {
	out := make(map[string]float64, len(results))
	for _, r := range results {
		out[r.Skill.ID()] = r.Score
	}
	return out
}

func TestIndexedStore_RenameWithPaddedName(t *testing.T) {
	ctx := context.Background()
	s := indexedStore(t)

	name := "  Podman "
	require.NoError(t, s.UpdateSkill(ctx, "devops:Docker", types.SkillPatch{Name: &name}))

	results, err := s.Search(ctx, "podman", types.SearchOptions{Threshold: 0.95})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "devops:Podman", results[0].Skill.ID())

	stale, err := s.Search(ctx, "docker", types.SearchOptions{Threshold: 0.95, Category: "devops"})
	require.NoError(t, err)
	for _, r := range stale {
		assert.NotEqual(t, "Docker", r.Skill.Name)
	}
}
