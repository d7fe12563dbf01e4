package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkillID(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		wantCategory string
		wantName     string
		wantOK       bool
	}{
		{name: "valid", id: "databases:Redis", wantCategory: "databases", wantName: "Redis", wantOK: true},
		{name: "name with colon", id: "frameworks:Foo:Bar", wantCategory: "frameworks", wantName: "Foo:Bar", wantOK: true},
		{name: "missing separator", id: "Redis", wantOK: false},
		{name: "empty category", id: ":Redis", wantOK: false},
		{name: "empty name", id: "databases:", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, name, ok := ParseSkillID(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestCanonicalSkill_ID(t *testing.T) {
	s := CanonicalSkill{Name: "Go", Category: "programming_languages"}
	assert.Equal(t, "programming_languages:Go", s.ID())
}

func TestSkillPatch_Apply(t *testing.T) {
	original := CanonicalSkill{
		Name:     "Redis",
		Category: "databases",
		Aliases:  []string{"redis"},
		Metadata: map[string]any{"popularity": "high"},
	}
	desc := "In-memory store"
	aliases := []string{"redis", "redis-server"}

	patched := SkillPatch{
		Description: &desc,
		Aliases:     &aliases,
		Metadata:    map[string]any{"type": "cache"},
	}.Apply(original)

	assert.Equal(t, "In-memory store", patched.Description)
	assert.Equal(t, []string{"redis", "redis-server"}, patched.Aliases)
	assert.Equal(t, map[string]any{"popularity": "high", "type": "cache"}, patched.Metadata)

	// original untouched
	assert.Equal(t, []string{"redis"}, original.Aliases)
	assert.Equal(t, map[string]any{"popularity": "high"}, original.Metadata)
	assert.Empty(t, original.Description)
}
