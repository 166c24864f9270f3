// internal/hostui/manager.go
package hostui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/pkg/host"
)

// ErrSessionNotFound is returned for unknown UI session ids
var ErrSessionNotFound = errors.New("ui session not found")

// Manager owns the open UI sessions
type Manager struct {
	logger   *zap.Logger
	maxOpen  int
	changes  host.Listeners[Snapshot]
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager. maxOpen <= 0 means unlimited.
func NewManager(maxOpen int, logger *zap.Logger) *Manager {
	return &Manager{
		logger:   logger.With(zap.String("component", "hostui")),
		maxOpen:  maxOpen,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// OnChange registers fn for every session change
func (m *Manager) OnChange(fn func(Snapshot)) host.Subscription {
	return m.changes.Add(fn)
}

// Create opens a new empty session
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxOpen > 0 && len(m.sessions) >= m.maxOpen {
		return nil, fmt.Errorf("too many open ui sessions (%d)", m.maxOpen)
	}

	session := newSession(m.logger, m.publish)
	m.sessions[session.ID()] = session

	m.logger.Info("UI session created", zap.String("session_id", session.ID().String()))
	return session, nil
}

// Get returns an open session
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return session, nil
}

// List returns every open session
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Destroy tears down a session and forgets it
func (m *Manager) Destroy(id uuid.UUID) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	session.Destroy()
	return nil
}

// DestroyAll tears down every session
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Destroy()
	}
	if len(sessions) > 0 {
		m.logger.Info("All UI sessions destroyed", zap.Int("count", len(sessions)))
	}
}

func (m *Manager) publish(s *Session) {
	if m.changes.Len() == 0 {
		return
	}
	m.changes.Emit(s.Snapshot())
}
