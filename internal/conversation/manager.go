package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps one Orchestrator per open chat session.
type Manager struct {
	deps Dependencies
	opts []Option

	mu       sync.RWMutex
	sessions map[string]*Orchestrator
}

func NewManager(deps Dependencies, opts ...Option) *Manager {
	return &Manager{
		deps:     deps.withDefaults(),
		opts:     opts,
		sessions: make(map[string]*Orchestrator),
	}
}

// Open starts a session for user (nil for anonymous) and appends its welcome
// message. An empty sessionID gets a fresh one. Opening an id that is already
// live returns the existing orchestrator untouched.
func (m *Manager) Open(ctx context.Context, sessionID string, user *User) *Orchestrator {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	m.mu.Lock()
	if o, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return o
	}
	o := NewOrchestrator(sessionID, StaticIdentity{User: user}, m.deps, m.opts...)
	m.sessions[sessionID] = o
	m.mu.Unlock()

	o.Welcome(ctx)
	m.deps.Logger.Info("chat session opened", "conversation_id", sessionID, "authenticated", user != nil)
	return o
}

func (m *Manager) Get(sessionID string) (*Orchestrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return o, nil
}

// Close forgets a session. It reports whether the session existed.
func (m *Manager) Close(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return false
	}
	delete(m.sessions, sessionID)
	return true
}

// CloseIdle drops sessions untouched for longer than idle and returns how
// many were removed.
func (m *Manager) CloseIdle(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, o := range m.sessions {
		if o.State() == StateIdle && o.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.deps.Logger.Info("closed idle chat sessions", "count", removed)
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
