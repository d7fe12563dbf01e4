package taxonomy

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/skill-taxonomy/internal/types"
)

// MemoryStore is an in-process Store guarded by a single-writer/multi-reader lock.
// Returned skills are copies.
type MemoryStore struct {
	mu      sync.RWMutex
	skills  map[string]types.CanonicalSkill
	order   []string
	names   map[string][]string // lowercased name -> ids
	aliases map[string]string   // lowercased alias -> id
	updated time.Time
	logger  *zap.Logger
}

// NewMemoryStore creates an empty store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		skills:  make(map[string]types.CanonicalSkill),
		names:   make(map[string][]string),
		aliases: make(map[string]string),
		logger:  logger,
	}
}

// NewSeededMemoryStore creates a store loaded with DefaultSkills
func NewSeededMemoryStore(ctx context.Context, logger *zap.Logger) (*MemoryStore, error) {
	s := NewMemoryStore(logger)
	for _, skill := range DefaultSkills() {
		if _, err := s.AddSkill(ctx, skill); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// GetAllSkills returns every skill in insertion order
func (s *MemoryStore) GetAllSkills(_ context.Context) ([]types.CanonicalSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.CanonicalSkill, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.skills[id].Clone())
	}
	return out, nil
}

// FindExact matches name case-insensitively against canonical names first, then aliases
func (s *MemoryStore) FindExact(_ context.Context, name string) (*types.CanonicalSkill, error) {
	key := Key(name)
	if key == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if ids := s.names[key]; len(ids) > 0 {
		skill := s.skills[ids[0]].Clone()
		return &skill, nil
	}
	if id, ok := s.aliases[key]; ok {
		skill := s.skills[id].Clone()
		return &skill, nil
	}
	return nil, nil
}

// FindByCategory returns a page of skills from one category
func (s *MemoryStore) FindByCategory(_ context.Context, category string, limit, offset int) ([]types.CanonicalSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []types.CanonicalSkill
	for _, id := range s.order {
		if skill := s.skills[id]; skill.Category == category {
			matched = append(matched, skill.Clone())
		}
	}
	return Paginate(matched, limit, offset), nil
}

// AddSkill inserts a new skill and returns its id
func (s *MemoryStore) AddSkill(_ context.Context, skill types.CanonicalSkill) (string, error) {
	skill, err := Prepare(skill)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := skill.ID()
	if _, exists := s.skills[id]; exists {
		return "", &DuplicateSkillError{Category: skill.Category, Name: skill.Name}
	}
	if err := s.checkAliases(skill, ""); err != nil {
		return "", err
	}

	s.insert(skill)
	s.updated = time.Now()
	s.logger.Debug("added skill", zap.String("id", id))
	return id, nil
}

// UpdateSkill applies patch to the skill with the given id. Renames move the id.
func (s *MemoryStore) UpdateSkill(_ context.Context, id string, patch types.SkillPatch) error {
	if _, _, ok := types.ParseSkillID(id); !ok {
		return &InvalidIDError{ID: id}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.skills[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	updated, err := Prepare(patch.Apply(current))
	if err != nil {
		return err
	}
	newID := updated.ID()
	if newID != id {
		if _, exists := s.skills[newID]; exists {
			return &DuplicateSkillError{Category: updated.Category, Name: updated.Name}
		}
	}
	if err := s.checkAliases(updated, id); err != nil {
		return err
	}

	if newID == id {
		s.unindex(current)
		s.skills[id] = updated
		s.index(updated)
	} else {
		s.remove(id)
		s.insert(updated)
	}
	s.updated = time.Now()
	s.logger.Debug("updated skill", zap.String("id", id), zap.String("new_id", newID))
	return nil
}

// DeleteSkill removes the skill with the given id
func (s *MemoryStore) DeleteSkill(_ context.Context, id string) error {
	if _, _, ok := types.ParseSkillID(id); !ok {
		return &InvalidIDError{ID: id}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.skills[id]; !ok {
		return &NotFoundError{ID: id}
	}
	s.remove(id)
	s.updated = time.Now()
	s.logger.Debug("deleted skill", zap.String("id", id))
	return nil
}

// Search ranks skills by fuzzy similarity of the query to names and aliases
func (s *MemoryStore) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	skills, err := s.GetAllSkills(ctx)
	if err != nil {
		return nil, err
	}
	return RankSearch(skills, query, opts), nil
}

// LastUpdated returns the time of the last successful mutation
func (s *MemoryStore) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// checkAliases rejects aliases that resolve to a skill other than self,
// either as that skill's alias or as its canonical name, and a canonical
// name that is already another skill's alias.
// Caller must hold the write lock.
func (s *MemoryStore) checkAliases(skill types.CanonicalSkill, self string) error {
	own := skill.ID()
	if existing, ok := s.aliases[Key(skill.Name)]; ok && existing != self && existing != own {
		return &AliasConflictError{Alias: skill.Name, ExistingID: existing}
	}
	for _, alias := range skill.Aliases {
		key := Key(alias)
		if existing, ok := s.aliases[key]; ok && existing != self && existing != own {
			return &AliasConflictError{Alias: alias, ExistingID: existing}
		}
		for _, existing := range s.names[key] {
			if existing != self && existing != own {
				return &AliasConflictError{Alias: alias, ExistingID: existing}
			}
		}
	}
	return nil
}

func (s *MemoryStore) insert(skill types.CanonicalSkill) {
	id := skill.ID()
	s.skills[id] = skill
	s.order = append(s.order, id)
	s.index(skill)
}

func (s *MemoryStore) remove(id string) {
	skill := s.skills[id]
	s.unindex(skill)
	delete(s.skills, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryStore) index(skill types.CanonicalSkill) {
	id := skill.ID()
	key := Key(skill.Name)
	s.names[key] = append(s.names[key], id)
	for _, alias := range skill.Aliases {
		s.aliases[Key(alias)] = id
	}
}

func (s *MemoryStore) unindex(skill types.CanonicalSkill) {
	id := skill.ID()
	key := Key(skill.Name)
	ids := s.names[key]
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(s.names, key)
	} else {
		s.names[key] = ids
	}
	for _, alias := range skill.Aliases {
		if s.aliases[Key(alias)] == id {
			delete(s.aliases, Key(alias))
		}
	}
}
