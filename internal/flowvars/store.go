// Package flowvars holds the variable bindings flow executions read by
// name. The store is created once at process start and shared by all
// requests; each request binds its variables through an
// ExecutionContext scoped to its execution id.
package flowvars

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// SourcePrefix namespaces the "latest webhook" convenience tier.
	SourcePrefix = "webhook_"

	defaultTTL        = time.Hour
	defaultMaxEntries = 10000
)

type Config struct {
	// TTL bounds how long execution-scoped and unscoped entries are
	// retained after their last write.
	TTL time.Duration

	// MaxEntries bounds the unscoped tier; the oldest entries are
	// evicted first.
	MaxEntries int
}

type entry struct {
	value    string
	storedAt time.Time
}

// Store is a concurrency-safe variable table with three tiers:
//
//	execution-scoped  "<executionID>_<key>"  written at most once
//	source-scoped     "webhook_<key>"        last write wins
//	unscoped          "<key>"                last write wins, TTL cache
//
// Unscoped and source-scoped keys can be clobbered by a concurrent,
// unrelated request; that race is accepted for "latest" convenience
// variables. Execution-scoped keys are unique per execution id and
// never contended.
type Store struct {
	mu     sync.RWMutex
	exec   map[string]entry
	source map[string]string
	latest map[string]entry

	ttl        time.Duration
	maxEntries int
}

func NewStore(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Store{
		exec:       make(map[string]entry),
		source:     make(map[string]string),
		latest:     make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get resolves a key across the three tiers, most specific first.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.exec[key]; ok {
		return e.value, true
	}
	if v, ok := s.source[key]; ok {
		return v, true
	}
	if e, ok := s.latest[key]; ok {
		return e.value, true
	}
	return "", false
}

func (s *Store) set(executionID, key, value string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	execKey := executionID + "_" + key
	if _, ok := s.exec[execKey]; !ok {
		s.exec[execKey] = entry{value: value, storedAt: now}
	}
	if strings.HasPrefix(key, SourcePrefix) {
		s.source[key] = value
	} else {
		s.source[SourcePrefix+key] = value
	}
	s.latest[key] = entry{value: value, storedAt: now}

	if len(s.latest) > s.maxEntries {
		s.evictOldestLocked(len(s.latest) - s.maxEntries)
	}
}

// Sweep drops expired execution-scoped and unscoped entries. It is
// driven by the background janitor started at bootstrap.
func (s *Store) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.exec {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.exec, key)
		}
	}
	for key, e := range s.latest {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.latest, key)
		}
	}
}

// Len reports the entry counts of the three tiers.
func (s *Store) Len() (exec, source, latest int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exec), len(s.source), len(s.latest)
}

func (s *Store) evictOldestLocked(n int) {
	type aged struct {
		key      string
		storedAt time.Time
	}
	entries := make([]aged, 0, len(s.latest))
	for key, e := range s.latest {
		entries = append(entries, aged{key: key, storedAt: e.storedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].storedAt.Before(entries[j].storedAt)
	})
	for i := 0; i < n && i < len(entries); i++ {
		delete(s.latest, entries[i].key)
	}
}
