// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/skill-taxonomy/internal/cluster"
	"github.com/jonathan/skill-taxonomy/internal/matcher"
	"github.com/jonathan/skill-taxonomy/internal/normalizer"
)

// EnvPrefix prefixes every environment override, e.g. SKILLTAX_STORE
const EnvPrefix = "SKILLTAX"

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Embedders
const (
	EmbedderHash   = "hash"
	EmbedderGemini = "gemini"
)

// Config represents the CLI configuration. Values come from defaults, an
// optional YAML/JSON/TOML file and SKILLTAX_* environment variables, in
// increasing order of precedence.
type Config struct {
	Store        string `mapstructure:"store" validate:"oneof=memory postgres sqlite"`
	DatabaseURL  string `mapstructure:"database_url" validate:"required_if=Store postgres"`
	SQLitePath   string `mapstructure:"sqlite_path" validate:"required_if=Store sqlite"`
	TaxonomyFile string `mapstructure:"taxonomy_file"` // Seed document imported at startup

	Embedder           string `mapstructure:"embedder" validate:"oneof=hash gemini"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required_if=Embedder gemini"`
	EmbeddingModel     string `mapstructure:"embedding_model"`
	EmbeddingDimension int    `mapstructure:"embedding_dimension" validate:"gte=1"`

	Concurrency int `mapstructure:"concurrency" validate:"gte=1"`

	Normalizer normalizer.Config `mapstructure:"normalizer"`
	Matcher    matcher.Config    `mapstructure:"matcher"`
	Cluster    cluster.Config    `mapstructure:"cluster"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig selects the log encoding and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ValidationError reports the first invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Store:              StoreMemory,
		SQLitePath:         "skill_taxonomy.db",
		Embedder:           EmbedderHash,
		EmbeddingModel:     "text-embedding-004",
		EmbeddingDimension: 128,
		Concurrency:        8,
		Normalizer:         normalizer.DefaultConfig(),
		Matcher:            matcher.DefaultConfig(),
		Cluster:            cluster.DefaultConfig(),
	}
}

// NewViper returns a viper instance carrying every default and bound to the
// SKILLTAX_* environment. Nested keys use '_' in the variable name, so
// normalizer.fuzzy_threshold reads SKILLTAX_NORMALIZER_FUZZY_THRESHOLD.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()

	v.SetDefault("store", d.Store)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("sqlite_path", d.SQLitePath)
	v.SetDefault("taxonomy_file", d.TaxonomyFile)
	v.SetDefault("embedder", d.Embedder)
	v.SetDefault("gemini_api_key", d.GeminiAPIKey)
	v.SetDefault("embedding_model", d.EmbeddingModel)
	v.SetDefault("embedding_dimension", d.EmbeddingDimension)
	v.SetDefault("concurrency", d.Concurrency)

	v.SetDefault("normalizer.exact_confidence", d.Normalizer.ExactConfidence)
	v.SetDefault("normalizer.fuzzy_threshold", d.Normalizer.FuzzyThreshold)
	v.SetDefault("normalizer.semantic_threshold", d.Normalizer.SemanticThreshold)
	v.SetDefault("normalizer.pattern_confidence", d.Normalizer.PatternConfidence)

	v.SetDefault("matcher.threshold", d.Matcher.Threshold)
	v.SetDefault("matcher.best_match_threshold", d.Matcher.BestMatchThreshold)
	v.SetDefault("matcher.top_k", d.Matcher.TopK)
	v.SetDefault("matcher.overlap_threshold", d.Matcher.OverlapThreshold)

	v.SetDefault("cluster.min_cluster_size", d.Cluster.MinClusterSize)
	v.SetDefault("cluster.max_clusters", d.Cluster.MaxClusters)
	v.SetDefault("cluster.eps", d.Cluster.Eps)
	v.SetDefault("cluster.min_samples", d.Cluster.MinSamples)
	v.SetDefault("cluster.seed", d.Cluster.Seed)
	v.SetDefault("cluster.inits", d.Cluster.Inits)
	v.SetDefault("cluster.max_iterations", d.Cluster.MaxIterations)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v. An empty path looks for
// skill_taxonomy.{yaml,json,toml} in the working directory and carries on
// without one.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("skill_taxonomy")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Normalizer.Concurrency = cfg.Concurrency
	cfg.Matcher.Concurrency = cfg.Concurrency
	cfg.Cluster.Concurrency = cfg.Concurrency

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enums. Only the first problem is reported.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config error: %w", err)
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Message: describe(fe)}
}

// fieldPath turns "Config.Normalizer.FuzzyThreshold" into "Normalizer.FuzzyThreshold"
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "required_if":
		return fmt.Sprintf("is required when %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
