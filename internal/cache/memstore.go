package cache

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dekarrin/refa/internal/fa"
)

// memStore is an in-process Store guarded by a mutex, grounded on the
// teacher's server/dao/inmem repositories.
type memStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]Entry
	byPattern map[string]uuid.UUID
	bytes     int64
}

// NewMemStore returns a Store backed by an in-memory map. Its contents do not
// survive process restart.
func NewMemStore() Store {
	return &memStore{
		byID:      make(map[uuid.UUID]Entry),
		byPattern: make(map[string]uuid.UUID),
	}
}

func (m *memStore) Compile(pattern string, compileFn func(string) (*fa.DFA, error)) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byPattern[pattern]; ok {
		return m.byID[id], nil
	}

	d, err := compileFn(pattern)
	if err != nil {
		return Entry{}, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{ID: id, Pattern: pattern, DFA: d}
	m.byID[id] = entry
	m.byPattern[pattern] = id
	m.bytes += int64(len(encodeDFA(d)))

	return entry, nil
}

func (m *memStore) Get(id uuid.UUID) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[id]
	return e, ok, nil
}

func (m *memStore) GetByPattern(pattern string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byPattern[pattern]
	if !ok {
		return Entry{}, false, nil
	}
	return m.byID[id], true, nil
}

func (m *memStore) Stats() (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{Patterns: len(m.byID), BytesStored: m.bytes}, nil
}

func (m *memStore) Close() error {
	return nil
}
