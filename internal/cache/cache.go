// Package cache provides the TTL-bounded result cache shared by the
// recommendation engine and the alert poller.
package cache

import (
	"path"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL classes, picked by data volatility: price projections use Medium,
// venue/DVP history Long, recent alerts Long, live-price-diff state Short.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = 1 * time.Hour
	TTLLong   = 24 * time.Hour
	TTLWeek   = 7 * 24 * time.Hour
)

// sweepInterval is how often the janitor scans for expired entries.
const sweepInterval = 30 * time.Second

// evictionBuffer bounds the expiry notification channel. Notifications are
// advisory (logging/metrics only) and are dropped when nobody drains them.
const evictionBuffer = 64

// Stats is a point-in-time view of cache behaviour.
type Stats struct {
	Keys        int     `json:"keys"`
	MemoryBytes int64   `json:"memory_bytes"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Evicted     int64   `json:"evicted"`
	HitRate     float64 `json:"hit_rate"`
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store is an in-process key/value store with per-entry TTLs, batch reads,
// pattern invalidation, and eviction introspection. Values are msgpack
// encoded; entries are never mutated in place, always replaced wholesale.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits    int64
	misses  int64
	evicted int64
	memory  int64

	evictions chan string
	stop      chan struct{}
	stopOnce  sync.Once
	log       zerolog.Logger
}

// NewStore creates a cache store and starts its background janitor.
func NewStore(log zerolog.Logger) *Store {
	s := &Store{
		entries:   make(map[string]entry),
		evictions: make(chan string, evictionBuffer),
		stop:      make(chan struct{}),
		log:       log.With().Str("component", "result_cache").Logger(),
	}
	go s.janitor()
	return s
}

// Close stops the janitor. Pending entries are dropped with the store.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Set encodes value with msgpack and stores it under key with the given TTL.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.memory -= int64(len(old.data))
	}
	s.entries[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
	s.memory += int64(len(data))
	return nil
}

// Get decodes the cached value for key into dest. It returns false on a miss
// or expired entry; expired entries are evicted lazily.
func (s *Store) Get(key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && time.Now().After(e.expiresAt) {
		s.removeLocked(key, e)
		ok = false
	}
	if !ok {
		s.misses++
		s.mu.Unlock()
		return false, nil
	}
	s.hits++
	s.mu.Unlock()

	if err := msgpack.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// BatchGet returns the raw msgpack payloads for every live key in keys in a
// single lock acquisition. Absent or expired keys are simply omitted.
func (s *Store) BatchGet(keys []string) map[string][]byte {
	now := time.Now()
	result := make(map[string][]byte, len(keys))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		e, ok := s.entries[key]
		if ok && now.After(e.expiresAt) {
			s.removeLocked(key, e)
			ok = false
		}
		if !ok {
			s.misses++
			continue
		}
		s.hits++
		result[key] = e.data
	}
	return result
}

// Decode unmarshals a payload returned by BatchGet.
func Decode(data []byte, dest interface{}) error {
	return msgpack.Unmarshal(data, dest)
}

// Invalidate removes every key matching pattern (path.Match glob syntax,
// e.g. "captain:round12:*") and returns the number removed.
func (s *Store) Invalidate(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, e := range s.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			s.log.Warn().Err(err).Str("pattern", pattern).Msg("Invalid cache invalidation pattern")
			return 0
		}
		if matched {
			s.removeLocked(key, e)
			count++
		}
	}

	if count > 0 {
		s.log.Debug().Str("pattern", pattern).Int("count", count).Msg("Cache entries invalidated")
	}
	return count
}

// Stats returns a snapshot of cache counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.hits + s.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(s.hits) / float64(total)
	}
	return Stats{
		Keys:        len(s.entries),
		MemoryBytes: s.memory,
		Hits:        s.hits,
		Misses:      s.misses,
		Evicted:     s.evicted,
		HitRate:     hitRate,
	}
}

// Evictions exposes expiry notifications. Consumers use this purely for
// logging and metrics, never to trigger recomputation synchronously.
func (s *Store) Evictions() <-chan string {
	return s.evictions
}

// removeLocked deletes an entry and emits a non-blocking eviction notice.
// Callers must hold s.mu.
func (s *Store) removeLocked(key string, e entry) {
	delete(s.entries, key)
	s.memory -= int64(len(e.data))
	s.evicted++

	select {
	case s.evictions <- key:
	default:
	}
}

// janitor periodically sweeps expired entries.
func (s *Store) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					s.removeLocked(key, e)
				}
			}
			s.mu.Unlock()
		}
	}
}
