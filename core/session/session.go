// Package session tracks per-user in-memory state between interactions:
// the last response, comparison results, and the chain controller.
// Nothing here is ever persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptlab-hq/promptlab/core/chain"
	"github.com/promptlab-hq/promptlab/llm"
)

// DefaultTTL is how long an idle session survives before the sweeper
// drops it.
const DefaultTTL = 2 * time.Hour

// Session holds one user's interaction state. Handlers access a session
// from one request at a time, so fields are unguarded; the Manager
// serializes creation and lookup.
type Session struct {
	ID    string
	Admin bool

	// LastResponse is the most recent single-model result.
	LastResponse *llm.ModelResponse
	// Comparison maps model display names to their results from the
	// latest comparison run; ComparisonOrder preserves the model order.
	Comparison      map[string]*llm.ModelResponse
	ComparisonOrder []string
	// ComparisonFailures records which models failed in that run.
	ComparisonFailures map[string]string

	// Chain is this session's pipeline state.
	Chain *chain.Controller

	lastSeen time.Time
}

// Manager owns the live session set.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	newChain func() *chain.Controller
	now      func() time.Time
}

// NewManager creates a Manager. newChain builds the chain controller
// attached to each fresh session.
func NewManager(ttl time.Duration, newChain func() *chain.Controller) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newChain: newChain,
		now:      time.Now,
	}
}

// Create registers a new session with a fresh uuid.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:       uuid.NewString(),
		Chain:    m.newChain(),
		lastSeen: m.now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the session for an id, refreshing its idle timer. Expired
// sessions are treated as absent.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.now().Sub(s.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	s.lastSeen = m.now()
	return s, true
}

// Sweep drops every session idle longer than the TTL and returns how
// many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int
	cutoff := m.now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
