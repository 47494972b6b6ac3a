// Package cache provides a small in-memory TTL cache. It is scoped to a
// single process: the scoring engine shares fetched series within one run
// (the VIX feed serves both equity evaluators) and never persists entries
// across runs.
package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type item struct {
	value    interface{}
	expireAt time.Time
}

// Memory is a mutex-guarded TTL cache with oldest-entry eviction.
type Memory struct {
	mu      sync.Mutex
	data    map[string]*item
	touched map[string]time.Time
	maxSize int
}

// NewMemory creates a cache holding at most maxSize entries.
func NewMemory(maxSize int) *Memory {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &Memory{
		data:    make(map[string]*item),
		touched: make(map[string]time.Time),
		maxSize: maxSize,
	}
}

// Set stores value under key for ttl. Non-positive ttl means one hour.
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxSize {
		m.evictOldest()
	}
	m.data[key] = &item{value: value, expireAt: time.Now().Add(ttl)}
	m.touched[key] = time.Now()
}

// Get returns the cached value or ErrCacheMiss.
func (m *Memory) Get(key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.data[key]
	if !ok || time.Now().After(it.expireAt) {
		if ok {
			delete(m.data, key)
			delete(m.touched, key)
		}
		return nil, ErrCacheMiss
	}
	m.touched[key] = time.Now()
	return it.value, nil
}

// Flush drops all entries.
func (m *Memory) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]*item)
	m.touched = make(map[string]time.Time)
}

func (m *Memory) evictOldest() {
	var oldestKey string
	oldest := time.Now()
	for key, at := range m.touched {
		if at.Before(oldest) {
			oldest = at
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(m.data, oldestKey)
		delete(m.touched, oldestKey)
	}
}
