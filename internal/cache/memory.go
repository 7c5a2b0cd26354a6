package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store with per-entry expiry. Intended for
// development and tests; entries are evicted lazily on read and by a
// background sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	maxSize int
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemory creates a memory store holding at most maxSize entries.
func NewMemory(maxSize int) *Memory {
	if maxSize <= 0 {
		maxSize = 1024
	}
	m := &Memory{
		entries: make(map[string]memoryEntry),
		maxSize: maxSize,
	}
	go m.sweep()
	return m
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	ent, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(ent.expiresAt) {
		return "", false, nil
	}
	return ent.value, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.maxSize {
		m.evictOldest()
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Size returns the current entry count, expired entries included.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictOldest removes the entry closest to expiry. Caller holds the lock.
func (m *Memory) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, ent := range m.entries {
		if oldestKey == "" || ent.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = ent.expiresAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for key, ent := range m.entries {
			if now.After(ent.expiresAt) {
				delete(m.entries, key)
			}
		}
		m.mu.Unlock()
	}
}
