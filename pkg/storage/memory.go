package storage

import (
	"context"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/calyptra/synapse/pkg/plasm"
)

// MemoryStore keeps topologies in process memory. Documents are stored
// serialized so callers never share mutable state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, name string, doc plasm.Document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[name] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, name string) (plasm.Document, error) {
	s.mu.RLock()
	raw, ok := s.docs[name]
	s.mu.RUnlock()
	if !ok {
		return plasm.Document{}, ErrNotFound
	}
	var doc plasm.Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return plasm.Document{}, err
	}
	return doc, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.docs, name)
	s.mu.Unlock()
	return nil
}
