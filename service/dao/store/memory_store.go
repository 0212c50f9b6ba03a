package store

import (
	"context"
	"sync"

	"github.com/viant/procio/service/dao"
)

// MatchFunc reports whether a record satisfies a single list criterion.
type MatchFunc[T any] func(record *T, criterion *dao.Criterion) bool

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K.
// The key is obtained from the supplied keySelector function.
//
// The lease manager keeps its lease table in one of these and the
// dispatcher uses another for worker records, so neither has to rewrite
// identical Save/Load/Delete/List logic.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	match       MatchFunc[T]
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
// The optional matcher evaluates List criteria; without one a filtered
// List returns no records.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, matcher ...MatchFunc[T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	if len(matcher) > 0 {
		ret.match = matcher[0]
	}
	return ret
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return nil // silently ignore – callers validate beforehand
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns the records matching every supplied criterion.
func (s *MemoryStore[K, T]) List(_ context.Context, criteria ...*dao.Criterion) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.matches(v, criteria) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore[K, T]) matches(record *T, criteria []*dao.Criterion) bool {
	for _, criterion := range criteria {
		if criterion == nil {
			continue
		}
		if s.match == nil || !s.match(record, criterion) {
			return false
		}
	}
	return true
}
