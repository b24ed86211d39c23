package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"dmeditor/internal/domain"
)

// Manager owns the live sessions of the process
type Manager struct {
	deps *Deps

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager. A nil logger uses slog.Default.
func NewManager(deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Origins == nil {
		deps.Origins = NewOriginPolicy(nil)
	}
	return &Manager{
		deps:     &deps,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Origins exposes the allow-list shared by every session
func (m *Manager) Origins() *OriginPolicy { return m.deps.Origins }

// Create starts a new session
func (m *Manager) Create() *Session {
	s := newSession(uuid.New(), m.deps)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.logger.Info("session created")
	return s
}

// Get returns the session with the given id
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, &domain.NotFoundError{Message: "session not found"}
	}
	return s, nil
}

// Close ends and forgets a session
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return &domain.NotFoundError{Message: "session not found"}
	}

	s.Close()
	s.logger.Info("session closed")
	return nil
}

// CloseAll ends every session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
