// Package session keeps conversation state between HTTP requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"wareongo/internal/agent"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Store persists one RequirementState per session id
type Store interface {
	Get(ctx context.Context, id string) (agent.RequirementState, error)
	Save(ctx context.Context, id string, state agent.RequirementState) error
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryEntry struct {
	state   agent.RequirementState
	expires time.Time
}

// MemoryStore keeps sessions in process memory. A zero TTL never expires.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the stored state
func (m *MemoryStore) Get(_ context.Context, id string) (agent.RequirementState, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return agent.RequirementState{}, ErrNotFound
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return agent.RequirementState{}, ErrNotFound
	}
	return entry.state.Clone(), nil
}

// Save stores a copy of state and refreshes its expiry
func (m *MemoryStore) Save(_ context.Context, id string, state agent.RequirementState) error {
	entry := memoryEntry{state: state.Clone()}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.sessions[id] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes a session; unknown ids are not an error
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Close implements Store
func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
