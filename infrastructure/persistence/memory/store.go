// Package memory provides a map-backed ProjectStore for tests and for
// sessions that opt out of durable storage.
package memory

import (
	"encoding/json"
	"sync"

	"nexusboard/infrastructure/persistence/abstractions"
	pkgerrors "nexusboard/pkg/errors"
)

// Store keeps JSON-encoded values in a map. It mirrors the durable adapter's
// behavior exactly, including discarding corrupt entries.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ abstractions.ProjectStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Set(projectID, key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.NewStorageError("marshal", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[abstractions.StorageKey(projectID, key)] = encoded
	return nil
}

func (s *Store) Get(projectID, key string, out interface{}) (bool, error) {
	s.mu.RLock()
	encoded, ok := s.data[abstractions.StorageKey(projectID, key)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		_ = s.Delete(projectID, key)
		return false, nil
	}
	return true, nil
}

func (s *Store) Delete(projectID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, abstractions.StorageKey(projectID, key))
	return nil
}

func (s *Store) Close() error {
	return nil
}

// SetRaw stores a raw payload without marshaling. Tests use it to plant
// corrupt entries.
func (s *Store) SetRaw(projectID, key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[abstractions.StorageKey(projectID, key)] = raw
}

// Len reports how many keys the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
