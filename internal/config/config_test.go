package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, EmbedderHash, cfg.Embedder)
	assert.Equal(t, 128, cfg.EmbeddingDimension)
	assert.Equal(t, 0.95, cfg.Normalizer.ExactConfidence)
	assert.Equal(t, 0.85, cfg.Normalizer.FuzzyThreshold)
	assert.Equal(t, 0.75, cfg.Normalizer.SemanticThreshold)
	assert.Equal(t, 0.80, cfg.Normalizer.PatternConfidence)
	assert.Equal(t, 0.7, cfg.Matcher.Threshold)
	assert.Equal(t, 2, cfg.Cluster.MinClusterSize)
	assert.Equal(t, 10, cfg.Cluster.MaxClusters)
	assert.Equal(t, 0.5, cfg.Cluster.Eps)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 8, cfg.Normalizer.Concurrency)
	assert.False(t, cfg.Log.JSON)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
store: sqlite
sqlite_path: /tmp/taxonomy.db
concurrency: 4
normalizer:
  fuzzy_threshold: 0.9
cluster:
  max_clusters: 5
log:
  json: true
`)

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/taxonomy.db", cfg.SQLitePath)
	assert.Equal(t, 0.9, cfg.Normalizer.FuzzyThreshold)
	assert.Equal(t, 0.95, cfg.Normalizer.ExactConfidence, "unset nested keys keep defaults")
	assert.Equal(t, 5, cfg.Cluster.MaxClusters)
	assert.Equal(t, 4, cfg.Cluster.Concurrency)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfig(t, "config.toml", `
store = "postgres"
database_url = "postgres://localhost/skills"

[matcher]
threshold = 0.8
`)

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 0.8, cfg.Matcher.Threshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SKILLTAX_STORE", "sqlite")
	t.Setenv("SKILLTAX_SQLITE_PATH", "/data/skills.db")
	t.Setenv("SKILLTAX_NORMALIZER_FUZZY_THRESHOLD", "0.9")
	t.Setenv("SKILLTAX_LOG_DEBUG", "true")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/data/skills.db", cfg.SQLitePath)
	assert.Equal(t, 0.9, cfg.Normalizer.FuzzyThreshold)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(NewViper(), "/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "mongo" }, field: "Store", wantErr: true},
		{name: "postgres needs url", mutate: func(c *Config) { c.Store = StorePostgres }, field: "DatabaseURL", wantErr: true},
		{name: "postgres with url", mutate: func(c *Config) { c.Store = StorePostgres; c.DatabaseURL = "postgres://x" }},
		{name: "gemini needs key", mutate: func(c *Config) { c.Embedder = EmbedderGemini }, field: "GeminiAPIKey", wantErr: true},
		{name: "threshold above one", mutate: func(c *Config) { c.Normalizer.FuzzyThreshold = 1.5 }, field: "Normalizer.FuzzyThreshold", wantErr: true},
		{name: "zero max clusters", mutate: func(c *Config) { c.Cluster.MaxClusters = 0 }, field: "Cluster.MaxClusters", wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, field: "Concurrency", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}
