// Package session stores per-session key-value state of the summary screen.
//
// A Backend holds the values of all sessions; Scope binds it to one session
// ID and yields a summary.Store.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gridcfg.io/console/internal/summary"
	"gridcfg.io/console/internal/util"
)

// Backend stores string values per session and key.
type Backend interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well-formed session ID.
func ValidID(id string) bool {
	return util.ValidateUUID(id) == nil
}

// Scope binds a backend to one session.
func Scope(backend Backend, sessionID string) summary.Store {
	return scoped{backend: backend, id: sessionID}
}

type scoped struct {
	backend Backend
	id      string
}

func (s scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.id, key)
}

func (s scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.id, key, value)
}

// MemoryStore is a Backend kept in process memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

// Get returns the value of key in a session.
func (m *MemoryStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[sessionID][key]
	return v, ok, nil
}

// Set stores a value of a session.
func (m *MemoryStore) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[sessionID] == nil {
		m.values[sessionID] = make(map[string]string)
	}
	m.values[sessionID][key] = value
	return nil
}

// Len returns the number of sessions holding values.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
