package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeclaw/core/ecnp"
	"github.com/edgeclaw/core/policy"
	"github.com/edgeclaw/core/session"
)

func TestEngineIdentityLifecycle(t *testing.T) {
	eng := New(DefaultConfig())
	defer eng.Close()

	_, err := eng.GetIdentity()
	assert.Error(t, err)

	id, err := eng.GenerateIdentity()
	require.NoError(t, err)
	assert.NotEmpty(t, id.DeviceID)

	got, err := eng.GetIdentity()
	require.NoError(t, err)
	assert.Equal(t, id.DeviceID, got.DeviceID)
}

func TestEngineCreateSessionAndEncrypt(t *testing.T) {
	alice := New(DefaultConfig())
	bob := New(DefaultConfig())
	defer alice.Close()
	defer bob.Close()

	_, err := alice.GenerateIdentity()
	require.NoError(t, err)
	_, err = bob.GenerateIdentity()
	require.NoError(t, err)

	aliceID, err := alice.GetIdentity()
	require.NoError(t, err)
	bobID, err := bob.GetIdentity()
	require.NoError(t, err)
	_ = aliceID
	_ = bobID

	alicePeerKey, err := alicePeerExchangeKey(alice)
	require.NoError(t, err)
	bobPeerKey, err := alicePeerExchangeKey(bob)
	require.NoError(t, err)

	aliceSession, err := alice.CreateSession("bob", bobPeerKey)
	require.NoError(t, err)
	assert.Equal(t, "bob", aliceSession.PeerID)
	assert.Equal(t, session.Established, aliceSession.State)
	assert.NotEmpty(t, aliceSession.SessionID)

	bobSession, err := bob.CreateSession("alice", alicePeerKey)
	require.NoError(t, err)

	ciphertext, err := alice.EncryptMessage(aliceSession.SessionID, []byte("hello bob"))
	require.NoError(t, err)

	plaintext, err := bob.DecryptMessage(bobSession.SessionID, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello bob"), plaintext)
}

// alicePeerExchangeKey reaches into the engine's own identity manager to get
// its X25519 exchange public key, standing in for an out-of-band exchange.
func alicePeerExchangeKey(e *Engine) ([]byte, error) {
	e.identityMu.Lock()
	defer e.identityMu.Unlock()
	return e.identity.ExchangePublicKey()
}

func TestEngineEvaluateCapability(t *testing.T) {
	eng := New(DefaultConfig())
	defer eng.Close()

	d := eng.EvaluateCapability("shell_exec", policy.Viewer)
	assert.False(t, d.Allowed)

	d = eng.EvaluateCapability("status_query", policy.Viewer)
	assert.True(t, d.Allowed)
}

func TestEngineEncodeDecodeECNP(t *testing.T) {
	eng := New(DefaultConfig())
	defer eng.Close()

	frame, err := eng.EncodeECNP(ecnp.Heartbeat, []byte("ping"))
	require.NoError(t, err)

	msg, err := eng.DecodeECNP(frame)
	require.NoError(t, err)
	assert.Equal(t, ecnp.Heartbeat, msg.Type)
}

func TestEngineCreateEcmRequiresIdentity(t *testing.T) {
	eng := New(DefaultConfig())
	defer eng.Close()

	_, err := eng.CreateEcm()
	assert.Error(t, err)

	_, err = eng.GenerateIdentity()
	require.NoError(t, err)

	data, err := eng.CreateEcm()
	require.NoError(t, err)
	assert.Contains(t, string(data), "device_id")
}

func TestEngineSyncRequiresInit(t *testing.T) {
	eng := New(DefaultConfig())
	defer eng.Close()

	assert.False(t, eng.SyncIsConnected())
	_, err := eng.SyncRemoteExec("status", nil)
	assert.Error(t, err)
}
