// Package peer tracks devices an agent has discovered or connected to: a
// keyed, liveness-aware directory of peer metadata.
package peer

import (
	"sync"
	"time"

	"github.com/edgeclaw/core/errs"
)

// Info is the public record of a known peer.
type Info struct {
	PeerID       string
	DeviceName   string
	DeviceType   string
	Address      string
	Capabilities []string
	LastSeen     time.Time
	IsConnected  bool
}

// entry is the manager's internal record, carrying the discovery time
// separately from LastSeen; CleanupStale judges staleness by discovery time.
type entry struct {
	info         Info
	discoveredAt time.Time
}

// Manager is a thread-safe, in-memory peer directory.
type Manager struct {
	mu    sync.RWMutex
	peers map[string]*entry
}

// NewManager creates an empty peer manager.
func NewManager() *Manager {
	return &Manager{peers: make(map[string]*entry)}
}

// AddPeer inserts or updates a peer record. Every add/update resets
// IsConnected to false; callers mark a peer connected explicitly via
// SetConnected once a session is established.
func (m *Manager) AddPeer(peerID, deviceName, deviceType, address string, capabilities []string) Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.peers[peerID]
	if !exists {
		e = &entry{discoveredAt: now}
		m.peers[peerID] = e
	}

	e.info = Info{
		PeerID:       peerID,
		DeviceName:   deviceName,
		DeviceType:   deviceType,
		Address:      address,
		Capabilities: capabilities,
		LastSeen:     now,
		IsConnected:  false,
	}
	return e.info
}

// SetConnected marks a peer connected or disconnected and refreshes LastSeen.
func (m *Manager) SetConnected(peerID string, connected bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.peers[peerID]
	if !exists {
		return errs.New(errs.InvalidParameter, "unknown peer").WithDetails("peer_id", peerID)
	}
	e.info.IsConnected = connected
	e.info.LastSeen = time.Now()
	return nil
}

// RemovePeer deletes a peer record, if present.
func (m *Manager) RemovePeer(peerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.peers, peerID)
}

// GetPeer returns the record for peerID.
func (m *Manager) GetPeer(peerID string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.peers[peerID]
	if !exists {
		return Info{}, false
	}
	return e.info, true
}

// ListPeers returns every tracked peer.
func (m *Manager) ListPeers() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.peers))
	for _, e := range m.peers {
		out = append(out, e.info)
	}
	return out
}

// ConnectedPeers returns only the peers currently marked connected.
func (m *Manager) ConnectedPeers() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0)
	for _, e := range m.peers {
		if e.info.IsConnected {
			out = append(out, e.info)
		}
	}
	return out
}

// CleanupStale removes peers whose discovery time is older than timeout,
// returning the number removed. Staleness is judged on DiscoveredAt, not
// LastSeen, so a peer that was seen once long ago and never again still
// ages out even if nothing has updated LastSeen since.
func (m *Manager) CleanupStale(timeout time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-timeout)
	var stale []string
	for id, e := range m.peers {
		if e.discoveredAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(m.peers, id)
	}
	return len(stale)
}

// Count returns the number of tracked peers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.peers)
}
