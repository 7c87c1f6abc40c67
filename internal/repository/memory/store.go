package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
)

// Store keeps records in process memory. Used for local runs and tests.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.BuffaloRecord
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store, optionally seeded with records.
func New(seed ...models.BuffaloRecord) *Store {
	s := &Store{records: make(map[string]models.BuffaloRecord, len(seed))}
	for _, r := range seed {
		s.records[r.ID] = r.Clone()
	}
	return s
}

func (s *Store) Get(_ context.Context, id string) (models.BuffaloRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return models.BuffaloRecord{}, repository.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Store) Set(_ context.Context, record models.BuffaloRecord) error {
	if record.ID == "" {
		return errors.New("buffalo id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *Store) Update(_ context.Context, id string, patch models.BuffaloPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.records[id] = patch.Apply(r)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Store) ListAll(_ context.Context) ([]models.BuffaloRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BuffaloRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) Close(context.Context) error { return nil }
