// Package storage is the key/value persistence port used by history,
// collections, tabs, settings and the mock registry, with SQLite, JSON file
// and in-memory backends.
package storage

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Storage keys
const (
	KeyOnboarding    = "apiTesterOnboarding"
	KeyTheme         = "theme"
	KeyWhatsNew      = "whatsNewLastSeen"
	KeyHistory       = "requestHistory"
	KeyCollections   = "collections"
	KeyAliases       = "urlAliases"
	KeyTabs          = "tabs"
	KeyMockEndpoints = "mockEndpoints"
	KeyMockEnabled   = "mockEnabled"
)

// Store reads and writes string values by key. Writes are last-write-wins.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// GetJSON decodes the value at key into v. It reports false when the key is absent.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}

// MemoryStore keeps values in a map. It backs tests and --backend memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
