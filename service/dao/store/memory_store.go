package store

import (
	"context"
	"sync"

	"github.com/viant/reviewflow/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keeping
// entities of type *T mapped by a key K obtained from keySelector.
//
// When a clone function is supplied, values are copied on the way in and on
// the way out, so callers never share memory with the store.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	clone       func(*T) *T
	filter      func(*T, []*dao.Parameter) bool
}

// StoreOption customises a MemoryStore.
type StoreOption[K comparable, T any] func(*MemoryStore[K, T])

// WithClone sets the copy function applied on Save, Load and List.
func WithClone[K comparable, T any](clone func(*T) *T) StoreOption[K, T] {
	return func(s *MemoryStore[K, T]) { s.clone = clone }
}

// WithFilter sets the predicate List applies to parameters.
func WithFilter[K comparable, T any](filter func(*T, []*dao.Parameter) bool) StoreOption[K, T] {
	return func(s *MemoryStore[K, T]) { s.filter = filter }
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...StoreOption[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (s *MemoryStore[K, T]) copy(v *T) *T {
	if s.clone == nil || v == nil {
		return v
	}
	return s.clone(v)
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	v = s.copy(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key, or (nil, nil) when absent.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return s.copy(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns stored records matching parameters, all when no filter is set.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.filter != nil && !s.filter(v, parameters) {
			continue
		}
		out = append(out, s.copy(v))
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
