// Package cache provides the in-process TTL caches backing the
// dashboard and arrears endpoints.
//
// Entries are invalidated explicitly by the services' write paths; the
// TTL is only a backstop. Callers must not rely on expiry for
// read-after-write consistency.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/kaskelas/kas-kelas-be/internal/metrics"
)

// Well-known keys. Arrears results are cached per period.
const DashboardKey = "dashboard_stats"

// ArrearsKey returns the cache key for one period's arrears list.
func ArrearsKey(bulan, tahun int) string {
	return fmt.Sprintf("arrears_list_%d_%d", bulan, tahun)
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// Store is a mutex-guarded TTL cache for one value type.
type Store[T any] struct {
	mu    sync.Mutex
	name  string
	ttl   time.Duration
	items map[string]entry[T]
}

// NewStore creates a named TTL cache. The name labels the hit/miss metrics.
func NewStore[T any](name string, ttl time.Duration) *Store[T] {
	return &Store[T]{
		name:  name,
		ttl:   ttl,
		items: make(map[string]entry[T]),
	}
}

// Get retrieves a live value from the cache.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			delete(s.items, key)
		}
		metrics.CacheMisses.WithLabelValues(s.name).Inc()
		return zero, false
	}
	metrics.CacheHits.WithLabelValues(s.name).Inc()
	return e.data, true
}

// Set stores a value under key for the store's TTL.
func (s *Store[T]) Set(key string, data T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(s.ttl)}
}

// Delete removes a key from the cache.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Flush drops every entry.
func (s *Store[T]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]entry[T])
}

// CleanExpired removes expired entries and returns how many were dropped.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

// Size returns the current number of items in the cache.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Cleaner is implemented by caches that support periodic cleanup.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs the periodic cleanup of registered caches.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates a new cache manager.
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins periodic cleanup of all registered caches.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range m.caches {
				c.CleanExpired()
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
