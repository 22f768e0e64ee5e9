package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Entry is the bucket of one rate limited key.
type Entry struct {
	// Limiter is the token bucket of the key.
	Limiter *rate.Limiter

	lastSeen atomic.Int64
}

// LastSeen returns the time of the last request of the key.
func (e *Entry) LastSeen() time.Time {
	return time.Unix(0, e.lastSeen.Load())
}

func (e *Entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

// Storage provides thread-safe in-memory storage for rate limit buckets.
// It uses sync.Map for concurrent access and performs periodic cleanup of idle entries.
type Storage struct {
	entries sync.Map
	ttl     time.Duration
	stopCh  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewStorage creates a new rate limit storage and starts the cleanup goroutine.
// Entries unused for longer than ttl are removed.
func NewStorage(ttl time.Duration) *Storage {
	s := &Storage{
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	s.startCleanup()
	return s
}

// Get retrieves an entry by key. Returns nil if not found.
func (s *Storage) Get(key string) *Entry {
	value, ok := s.entries.Load(key)
	if !ok {
		return nil
	}
	return value.(*Entry)
}

// GetOrCreate returns the entry of key, creating it with newLimiter if
// absent, and marks it as used at now.
func (s *Storage) GetOrCreate(key string, now time.Time, newLimiter func() *rate.Limiter) *Entry {
	entry := s.Get(key)
	if entry == nil {
		value, _ := s.entries.LoadOrStore(key, &Entry{Limiter: newLimiter()})
		entry = value.(*Entry)
	}
	entry.touch(now)
	return entry
}

// Delete removes an entry by key.
func (s *Storage) Delete(key string) {
	s.entries.Delete(key)
}

func (s *Storage) startCleanup() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				s.cleanup(now)
			case <-s.stopCh:
				return
			}
		}
	}()
}

// cleanup removes entries that have not been used since now minus the ttl.
func (s *Storage) cleanup(now time.Time) {
	threshold := now.Add(-s.ttl)

	s.entries.Range(func(key, value any) bool {
		if value.(*Entry).LastSeen().Before(threshold) {
			s.entries.Delete(key)
		}
		return true
	})
}

// Stop gracefully stops the storage cleanup goroutine. It is safe to call
// more than once.
func (s *Storage) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Count returns the number of entries currently stored.
func (s *Storage) Count() int {
	count := 0
	s.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
