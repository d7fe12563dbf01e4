package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-taxonomy/internal/schemas"
	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
	"github.com/jonathan/skill-taxonomy/internal/types"
)

// execute runs the root command in process and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{name: "nil", values: nil, want: nil},
		{name: "already split", values: []string{"Go", "Rust"}, want: []string{"Go", "Rust"}},
		{name: "comma joined", values: []string{"Go, Rust", "SQL"}, want: []string{"Go", "Rust", "SQL"}},
		{name: "drops blanks", values: []string{" ", "Go,,", ""}, want: []string{"Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.values))
		})
	}
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "k8s", "%%%%")
	require.NoError(t, err)

	var result types.NormalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.NormalizedSkills, 1)
	assert.Equal(t, "Kubernetes", result.NormalizedSkills[0].Canonical)
	assert.Equal(t, []string{"%%%%"}, result.Unmatched)
}

func TestClusterCommand_ByCategory(t *testing.T) {
	out, err := execute(t, "cluster", "--method", "category", "Python", "Go", "Docker", "k8s")
	require.NoError(t, err)

	var report clusterReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Clusters, 2)
	assert.Equal(t, 2, report.Analysis.TotalClusters)
	assert.InDelta(t, 1.0, report.Analysis.Coverage, 1e-9)
}

func TestMatchCommand_UnknownStrategy(t *testing.T) {
	_, err := execute(t, "match", "--source", "Go", "--target", "Go", "--strategy", "telepathy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown matching strategy")
}

func TestTaxonomyExportImport_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.toml")
	t.Cleanup(func() { exportFormat, exportOut = "json", "" })

	_, err := execute(t, "taxonomy", "export", "--format", "toml", "--out", path)
	require.NoError(t, err)

	doc, err := loadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.DocumentVersion, doc.Version)
	assert.Len(t, doc.Skills(), len(taxonomy.DefaultSkills()))

	out, err := execute(t, "taxonomy", "import", path)
	require.NoError(t, err)

	var summary taxonomy.ImportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 0, summary.Added)
	assert.Equal(t, len(taxonomy.DefaultSkills()), summary.Updated)
}

func TestLoadDocument_RejectsInvalidJSONDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"taxonomy": {"devops": {"Docker": {"aliases": [1]}}}}`), 0644))

	_, err := loadDocument(path)
	require.Error(t, err)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := loadDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read taxonomy file")
}
