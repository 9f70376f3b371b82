// Package authclient is the Go client for the inventory API's auth
// subsystem. It mirrors the browser-side session lifecycle: a persisted
// session store with subscribe semantics, a route-guard decision table, and
// typed errors mapped from the server's error codes.
package authclient

import "sync"

// Storage is the key-value persistence behind the session store. It is
// injected so callers decide where sessions live (browser localStorage
// equivalent, a file, or memory in tests).
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStorage is a Storage kept in process memory. Zero value is not
// usable; construct with NewMemoryStorage.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
