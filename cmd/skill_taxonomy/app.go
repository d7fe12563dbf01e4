package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/cluster"
	"github.com/jonathan/skill-taxonomy/internal/config"
	"github.com/jonathan/skill-taxonomy/internal/db"
	"github.com/jonathan/skill-taxonomy/internal/db/sqlitestore"
	"github.com/jonathan/skill-taxonomy/internal/embedding"
	"github.com/jonathan/skill-taxonomy/internal/logging"
	"github.com/jonathan/skill-taxonomy/internal/matcher"
	"github.com/jonathan/skill-taxonomy/internal/normalizer"
	"github.com/jonathan/skill-taxonomy/internal/observability"
	"github.com/jonathan/skill-taxonomy/internal/schemas"
	"github.com/jonathan/skill-taxonomy/internal/taxonomy"
)

// app holds the components wired from configuration for one command run
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      taxonomy.Store
	database   *db.DB // nil unless the postgres backend is selected
	embedder   embedding.Embedder
	normalizer *normalizer.Normalizer
	matcher    *matcher.Matcher
	clusterer  *cluster.Clusterer
	closers    []func()
}

// newApp loads configuration and builds the store, embedder and services
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(config.NewViper(), configFile)
	if err != nil {
		return nil, err
	}
	if jsonLogs {
		cfg.Log.JSON = true
	}
	if debugLogs {
		cfg.Log.Debug = true
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.TaxonomyFile != "" {
		doc, err := loadDocument(cfg.TaxonomyFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		summary, err := taxonomy.Import(ctx, a.store, doc)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to import %s: %w", cfg.TaxonomyFile, err)
		}
		logger.Info("imported taxonomy file",
			zap.String("path", cfg.TaxonomyFile),
			zap.Int("added", summary.Added),
			zap.Int("updated", summary.Updated))
	}

	if err := a.openEmbedder(ctx); err != nil {
		a.Close()
		return nil, err
	}

	normOpts := []normalizer.Option{
		normalizer.WithConfig(cfg.Normalizer),
		normalizer.WithLogger(logger.Named("normalizer")),
	}
	if a.database != nil {
		normOpts = append(normOpts, normalizer.WithRecorder(a.database))
	}
	a.normalizer = normalizer.New(a.store, a.embedder, normOpts...)
	a.matcher = matcher.New(a.embedder,
		matcher.WithConfig(cfg.Matcher),
		matcher.WithLogger(logger.Named("matcher")))
	a.clusterer = cluster.New(a.store, a.embedder,
		cluster.WithConfig(cfg.Cluster),
		cluster.WithLogger(logger.Named("cluster")))
	return a, nil
}

// openStore connects the configured backend, seeding it when empty, and
// puts the search index in front of it
func (a *app) openStore(ctx context.Context) error {
	var inner taxonomy.Store
	switch a.cfg.Store {
	case config.StorePostgres:
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, database.Close)
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		if err := database.UpsertCategories(ctx, taxonomy.DefaultCategories()); err != nil {
			return err
		}
		a.database = database
		inner = database
	case config.StoreSQLite:
		store, err := sqlitestore.Open(a.cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		inner = store
	default:
		store, err := taxonomy.NewSeededMemoryStore(ctx, a.logger.Named("taxonomy"))
		if err != nil {
			return err
		}
		inner = store
	}

	if a.cfg.Store != config.StoreMemory {
		if err := seedIfEmpty(ctx, inner); err != nil {
			return err
		}
	}

	indexed, err := taxonomy.NewIndexedStore(ctx, inner, a.logger.Named("index"))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { _ = indexed.Close() })
	a.store = indexed
	return nil
}

func seedIfEmpty(ctx context.Context, store taxonomy.Store) error {
	existing, err := store.GetAllSkills(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect store: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, skill := range taxonomy.DefaultSkills() {
		if _, err := store.AddSkill(ctx, skill); err != nil {
			return fmt.Errorf("failed to seed %s: %w", skill.ID(), err)
		}
	}
	return nil
}

func (a *app) openEmbedder(ctx context.Context) error {
	if a.cfg.Embedder != config.EmbedderGemini {
		a.embedder = embedding.NewCached(embedding.NewHashEmbedder(a.cfg.EmbeddingDimension))
		return nil
	}
	gemini, err := embedding.NewGeminiEmbedder(ctx, a.cfg.GeminiAPIKey, a.cfg.EmbeddingModel, a.cfg.EmbeddingDimension, a.logger.Named("gemini"))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { _ = gemini.Close() })
	a.embedder = embedding.NewCached(gemini)
	return nil
}

// categories returns the category definitions for the active backend
func (a *app) categories(ctx context.Context) ([]taxonomy.CategoryDef, error) {
	if a.database != nil {
		return a.database.ListCategories(ctx)
	}
	return taxonomy.DefaultCategories(), nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// loadDocument reads a JSON or TOML taxonomy document and checks it against
// the import schema
func loadDocument(path string) (*taxonomy.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		doc, err := taxonomy.DecodeTOML(data)
		if err != nil {
			return nil, err
		}
		if err := schemas.ValidateTaxonomyDocument(doc); err != nil {
			return nil, fmt.Errorf("invalid taxonomy file %s: %w", path, err)
		}
		return doc, nil
	}

	if err := schemas.ValidateTaxonomyJSON(data); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
		}
		return nil, fmt.Errorf("invalid taxonomy file %s: %w", path, err)
	}
	return taxonomy.DecodeJSON(data)
}

// render writes v as indented JSON, or calls show with a Printer in pretty mode
func render(w io.Writer, v any, show func(p *observability.Printer)) error {
	if pretty && show != nil {
		show(observability.NewPrinter(w))
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// splitList splits comma separated values and drops empty entries
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
