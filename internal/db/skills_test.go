package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDefinesTables(t *testing.T) {
	tables := []string{
		"taxonomy_categories",
		"taxonomy_skills",
		"skill_aliases",
		"normalization_rules",
		"skill_normalizations",
	}
	for _, table := range tables {
		assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestMarshalMetadata(t *testing.T) {
	data, err := marshalMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	data, err = marshalMetadata(map[string]any{"type": "cache"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"cache"}`, string(data))

	_, err = marshalMetadata(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
