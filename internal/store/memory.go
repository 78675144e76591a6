package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-memory KV used in tests and as a throwaway store.
// Values round-trip through JSON so it behaves like the SQLite store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string, v any) error {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	m.mu.Lock()
	m.data[key] = string(raw)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Corrupt overwrites key with a value that is not valid JSON, for
// exercising cache-corruption fallback paths in tests.
func (m *Memory) Corrupt(key string) {
	m.mu.Lock()
	m.data[key] = "{not json"
	m.mu.Unlock()
}
