package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgeclaw/core/internal/metrics"
)

// Manager owns the lifecycle of every active Session: creation, lookup,
// removal, and periodic cleanup of expired sessions.
type Manager struct {
	mu            sync.RWMutex
	sessions      map[string]*Session
	defaultConfig Config
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewManager creates a session manager with the default policy and starts
// its background cleanup loop.
func NewManager() *Manager {
	m := &Manager{
		sessions:      make(map[string]*Session),
		defaultConfig: DefaultConfig(),
		stopCleanup:   make(chan struct{}),
	}
	m.cleanupTicker = time.NewTicker(30 * time.Second)
	go m.runCleanup()
	return m
}

// SetDefaultConfig replaces the policy applied to future CreateSession calls.
func (m *Manager) SetDefaultConfig(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
}

// CreateSession mints a random session identifier, derives a new Session
// from sharedSecret under the manager's default policy, and returns its
// Info snapshot.
func (m *Manager) CreateSession(peerID string, sharedSecret []byte) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSessionLocked(peerID, sharedSecret, m.defaultConfig)
}

// CreateSessionWithConfig mints a random session identifier and derives a
// new Session using a caller-supplied policy.
func (m *Manager) CreateSessionWithConfig(peerID string, sharedSecret []byte, config Config) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createSessionLocked(peerID, sharedSecret, config)
}

func (m *Manager) createSessionLocked(peerID string, sharedSecret []byte, config Config) (Info, error) {
	id := uuid.New().String()

	sess, err := New(id, peerID, sharedSecret, config)
	if err != nil {
		return Info{}, err
	}
	m.sessions[id] = sess
	metrics.SessionsCreated.Inc()
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return sess.Info(), nil
}

// GetSession returns the session for sessionID, whatever its current state.
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, exists := m.sessions[sessionID]
	return sess, exists
}

// GetSessionInfo returns the Info snapshot for sessionID.
func (m *Manager) GetSessionInfo(sessionID string) (Info, bool) {
	sess, ok := m.GetSession(sessionID)
	if !ok {
		return Info{}, false
	}
	return sess.Info(), true
}

// RemoveSession closes and removes a session, if present.
func (m *Manager) RemoveSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, exists := m.sessions[sessionID]; exists {
		sess.Close()
		delete(m.sessions, sessionID)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
}

// ActiveSessions returns the IDs of every session that is Established and
// not expired.
func (m *Manager) ActiveSessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id, sess := range m.sessions {
		if sess.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns the number of tracked sessions, expired or not.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stats returns a snapshot of total/active/expired session counts.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{TotalSessions: len(m.sessions)}
	for _, sess := range m.sessions {
		if sess.IsExpired() {
			stats.ExpiredSessions++
		} else {
			stats.ActiveSessions++
		}
	}
	return stats
}

// CleanupExpired removes every expired session and returns the count removed.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupExpiredLocked()
}

func (m *Manager) cleanupExpiredLocked() int {
	var expired []string
	for id, sess := range m.sessions {
		if sess.IsExpired() {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		m.sessions[id].Close()
		delete(m.sessions, id)
	}
	if len(expired) > 0 {
		metrics.SessionsExpired.Add(float64(len(expired)))
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return len(expired)
}

// Close stops the cleanup loop and closes every tracked session.
func (m *Manager) Close() error {
	close(m.stopCleanup)
	m.cleanupTicker.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		sess.Close()
	}
	m.sessions = make(map[string]*Session)
	metrics.ActiveSessions.Set(0)
	return nil
}

func (m *Manager) runCleanup() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.mu.Lock()
			m.cleanupExpiredLocked()
			m.mu.Unlock()
		case <-m.stopCleanup:
			return
		}
	}
}
