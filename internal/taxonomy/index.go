package taxonomy

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// candidateLimit bounds how many index hits are moved ahead per search
const candidateLimit = 200

// IndexedStore decorates a Store with an in-memory Bleve index over skill
// names and aliases. Search scores every skill with RankSearch and uses
// the index (substring match on names and aliases, typo-tolerant match on
// their words) to order skills that tie.
type IndexedStore struct {
	Store

	mu     sync.RWMutex
	index  bleve.Index
	docs   map[string]types.CanonicalSkill
	logger *zap.Logger
}

type skillDocument struct {
	Names    []string `json:"names"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
}

// NewIndexedStore builds the index from every skill currently in inner
func NewIndexedStore(ctx context.Context, inner Store, logger *zap.Logger) (*IndexedStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	s := &IndexedStore{
		Store:  inner,
		index:  idx,
		docs:   make(map[string]types.CanonicalSkill),
		logger: logger,
	}

	skills, err := inner.GetAllSkills(ctx)
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to load skills for index: %w", err)
	}
	batch := idx.NewBatch()
	for _, skill := range skills {
		if err := batch.Index(skill.ID(), toDocument(skill)); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index %s: %w", skill.ID(), err)
		}
		s.docs[skill.ID()] = skill
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	logger.Debug("built taxonomy index", zap.Int("skills", len(skills)))
	return s, nil
}

func buildIndexMapping() mapping.IndexMapping {
	skillMapping := bleve.NewDocumentMapping()

	// lowercased names and aliases, not analyzed
	namesField := bleve.NewKeywordFieldMapping()
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	categoryField := bleve.NewKeywordFieldMapping()

	skillMapping.AddFieldMappingsAt("names", namesField)
	skillMapping.AddFieldMappingsAt("text", textField)
	skillMapping.AddFieldMappingsAt("category", categoryField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = skillMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

func toDocument(skill types.CanonicalSkill) skillDocument {
	names := make([]string, 0, len(skill.Aliases)+1)
	names = append(names, strings.ToLower(skill.Name))
	for _, a := range skill.Aliases {
		names = append(names, strings.ToLower(a))
	}
	return skillDocument{
		Names:    names,
		Text:     strings.Join(names, " "),
		Category: skill.Category,
	}
}

// AddSkill adds to the inner store and indexes the new skill
func (s *IndexedStore) AddSkill(ctx context.Context, skill types.CanonicalSkill) (string, error) {
	id, err := s.Store.AddSkill(ctx, skill)
	if err != nil {
		return "", err
	}
	s.refresh(ctx, id, "")
	return id, nil
}

// UpdateSkill updates the inner store and re-indexes the skill
func (s *IndexedStore) UpdateSkill(ctx context.Context, id string, patch types.SkillPatch) error {
	if err := s.Store.UpdateSkill(ctx, id, patch); err != nil {
		return err
	}

	s.mu.RLock()
	current, ok := s.docs[id]
	s.mu.RUnlock()
	newID := id
	if ok {
		// the inner store trims names, so the new ID must too
		if updated, err := Prepare(patch.Apply(current)); err == nil {
			newID = updated.ID()
		}
	}
	s.refresh(ctx, newID, id)
	return nil
}

// DeleteSkill deletes from the inner store and the index
func (s *IndexedStore) DeleteSkill(ctx context.Context, id string) error {
	if err := s.Store.DeleteSkill(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	if err := s.index.Delete(id); err != nil {
		s.logger.Warn("failed to remove skill from index", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// refresh re-reads id from the inner store into the index, dropping oldID if it moved
func (s *IndexedStore) refresh(ctx context.Context, id, oldID string) {
	category, name, _ := types.ParseSkillID(id)
	page, err := s.Store.FindByCategory(ctx, category, 0, 0)
	if err != nil {
		s.logger.Warn("failed to reload skill for index", zap.String("id", id), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if oldID != "" && oldID != id {
		delete(s.docs, oldID)
		_ = s.index.Delete(oldID)
	}
	for _, skill := range page {
		if skill.Name != name {
			continue
		}
		s.docs[id] = skill
		if err := s.index.Index(id, toDocument(skill)); err != nil {
			s.logger.Warn("failed to index skill", zap.String("id", id), zap.Error(err))
		}
		return
	}
}

// Search ranks every indexed skill with RankSearch. Index hits go first so
// they win ties on score; the rest follow in ID order.
func (s *IndexedStore) Search(ctx context.Context, q string, opts types.SearchOptions) ([]types.SearchResult, error) {
	term := strings.ToLower(strings.TrimSpace(q))
	if term == "" {
		return []types.SearchResult{}, nil
	}

	queries := []query.Query{}
	wildcard := bleve.NewWildcardQuery("*" + stripWildcards(term) + "*")
	wildcard.SetField("names")
	queries = append(queries, wildcard)
	for _, word := range strings.Fields(term) {
		fq := bleve.NewFuzzyQuery(word)
		fq.SetField("text")
		fq.SetFuzziness(2)
		queries = append(queries, fq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), candidateLimit, 0, false)
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &StoreError{Op: "search", Cause: err}
	}

	s.mu.RLock()
	candidates := make([]types.CanonicalSkill, 0, len(s.docs))
	seen := make(map[string]bool, len(res.Hits))
	for _, hit := range res.Hits {
		if skill, ok := s.docs[hit.ID]; ok && !seen[hit.ID] {
			seen[hit.ID] = true
			candidates = append(candidates, skill)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(s.docs)) {
		if !seen[id] {
			candidates = append(candidates, s.docs[id])
		}
	}
	s.mu.RUnlock()

	return RankSearch(candidates, q, opts), nil
}

// LastUpdated reports the wrapped store's last mutation time when it tracks one
func (s *IndexedStore) LastUpdated() time.Time {
	if lu, ok := s.Store.(LastUpdater); ok {
		return lu.LastUpdated()
	}
	return time.Time{}
}

// Close releases the index
func (s *IndexedStore) Close() error {
	return s.index.Close()
}

// stripWildcards removes characters the wildcard query would treat as patterns
func stripWildcards(s string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(s)
}
