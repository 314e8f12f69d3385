package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateAndGet(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	info, err := mgr.CreateSession("peer-1", secret)
	require.NoError(t, err)
	assert.Equal(t, "peer-1", info.PeerID)
	assert.NotEmpty(t, info.SessionID)
	assert.Equal(t, Established, info.State)

	got, ok := mgr.GetSession(info.SessionID)
	require.True(t, ok)
	assert.Equal(t, info.SessionID, got.ID())
	assert.Equal(t, "peer-1", got.PeerID())
}

func TestManagerMintsDistinctSessionIDsForSamePeer(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	first, err := mgr.CreateSession("dup-peer", secret)
	require.NoError(t, err)

	second, err := mgr.CreateSession("dup-peer", secret)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, mgr.Count())
}

func TestManagerRemoveSession(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	info, err := mgr.CreateSession("peer-2", secret)
	require.NoError(t, err)

	mgr.RemoveSession(info.SessionID)
	_, ok := mgr.GetSession(info.SessionID)
	assert.False(t, ok)
}

func TestManagerCleanupExpired(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	_, err := mgr.CreateSessionWithConfig("peer-3", secret, Config{MaxAge: time.Millisecond})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	removed := mgr.CleanupExpired()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, mgr.Count())
}

func TestManagerStatsAndActiveSessions(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	active, err := mgr.CreateSession("active-peer", secret)
	require.NoError(t, err)
	_, err = mgr.CreateSessionWithConfig("expired-peer", secret, Config{MaxAge: time.Millisecond})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	stats := mgr.Stats()
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 1, stats.ExpiredSessions)

	ids := mgr.ActiveSessions()
	assert.Equal(t, []string{active.SessionID}, ids)
}

func TestGetSessionInfo(t *testing.T) {
	mgr := NewManager()
	defer mgr.Close()

	secret := make([]byte, 32)
	created, err := mgr.CreateSession("peer-4", secret)
	require.NoError(t, err)

	info, ok := mgr.GetSessionInfo(created.SessionID)
	require.True(t, ok)
	assert.Equal(t, created.SessionID, info.SessionID)
	assert.Equal(t, "peer-4", info.PeerID)

	_, ok = mgr.GetSessionInfo("nonexistent")
	assert.False(t, ok)
}
