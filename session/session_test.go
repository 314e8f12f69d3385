package session

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeclaw/core/errs"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}

	sess, err := New("sess-1", "peer-1", secret, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "peer-1", sess.PeerID())
	assert.Equal(t, Established, sess.State())

	plaintext := []byte("remote_exec: status_query")
	ciphertext, err := sess.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := sess.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
	assert.Equal(t, uint64(1), sess.MessagesSent())
	assert.Equal(t, uint64(1), sess.MessagesReceived())
}

func TestNonceIsStrictlyIncreasing(t *testing.T) {
	secret := make([]byte, 32)
	sess, err := New("sess-2", "peer-2", secret, DefaultConfig())
	require.NoError(t, err)

	c1, err := sess.Encrypt([]byte("a"))
	require.NoError(t, err)
	c2, err := sess.Encrypt([]byte("b"))
	require.NoError(t, err)

	nonce1 := c1[:nonceSize]
	nonce2 := c2[:nonceSize]
	assert.NotEqual(t, nonce1, nonce2)
	assert.Equal(t, -1, bytes.Compare(nonce1, nonce2))
	assert.Equal(t, []byte{0, 0, 0, 0}, nonce1[:4])
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	secret := make([]byte, 32)
	sess, err := New("sess-3", "peer-3", secret, DefaultConfig())
	require.NoError(t, err)

	ciphertext, err := sess.Encrypt([]byte("hello"))
	require.NoError(t, err)
	ciphertext[len(ciphertext)-1] ^= 0xFF

	_, err = sess.Decrypt(ciphertext)
	assert.Error(t, err)
	assert.True(t, errs.Is(err, errs.CryptoError))
}

func TestDecryptRejectsShortCiphertextWithInvalidParameter(t *testing.T) {
	secret := make([]byte, 32)
	sess, err := New("sess-3b", "peer-3b", secret, DefaultConfig())
	require.NoError(t, err)

	_, err = sess.Decrypt([]byte("short"))
	assert.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidParameter))
}

func TestIsExpiredOnMaxAge(t *testing.T) {
	secret := make([]byte, 32)
	sess, err := New("sess-4", "peer-4", secret, Config{MaxAge: time.Millisecond})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.True(t, sess.IsExpired())
	assert.Equal(t, Expired, sess.State())

	_, err = sess.Encrypt([]byte("too late"))
	assert.Error(t, err)
	assert.True(t, errs.Is(err, errs.SessionExpired))
}

func TestDefaultConfigIsPurelyTimeBased(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Hour, cfg.MaxAge)
}

func TestNewRejectsEmptySecret(t *testing.T) {
	_, err := New("sess-6", "peer-6", nil, DefaultConfig())
	assert.Error(t, err)
}

func TestInfoReflectsCounters(t *testing.T) {
	secret := make([]byte, 32)
	sess, err := New("sess-7", "peer-7", secret, DefaultConfig())
	require.NoError(t, err)

	ciphertext, err := sess.Encrypt([]byte("hi"))
	require.NoError(t, err)
	_, err = sess.Decrypt(ciphertext)
	require.NoError(t, err)

	info := sess.Info()
	assert.Equal(t, "sess-7", info.SessionID)
	assert.Equal(t, "peer-7", info.PeerID)
	assert.Equal(t, Established, info.State)
	assert.Equal(t, uint64(1), info.MessagesSent)
	assert.Equal(t, uint64(1), info.MessagesReceived)
}
