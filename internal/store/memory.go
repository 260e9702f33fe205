// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Sessions are never persisted: state is lost when the process restarts.
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex; Get and Update both take the write lock
//     because they refresh the session's idle timer.
//   - Update runs the callback under the write lock, so a session's round is
//     never mutated by two requests at once.
//   - Sweep evicts sessions idle for longer than the configured TTL.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/session"
)

// ErrNotFound is returned for unknown (or evicted) session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store defines the interface for session state.
type Store interface {
	// Create adds a new session.
	Create(ctx context.Context, s *session.Session) error

	// Get returns a snapshot of the session view. Reads count as activity.
	Get(ctx context.Context, id string) (session.View, error)

	// Update runs fn against the stored session with exclusive access.
	// fn's error is returned unchanged; the session is touched either way.
	Update(ctx context.Context, id string, fn func(*session.Session) error) error

	// Delete removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int

	// Sweep evicts idle sessions and returns how many were removed.
	Sweep(now time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
// A ttl <= 0 disables eviction.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *memory) Create(ctx context.Context, s *session.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (session.View, error) {
	if err := ctx.Err(); err != nil {
		return session.View{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return session.View{}, ErrNotFound
	}
	s.Touch(m.now())
	return s.View(), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*session.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	err := fn(s)
	s.Touch(m.now())
	return err
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
