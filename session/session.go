package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/edgeclaw/core/errs"
)

// hkdfInfo is the fixed HKDF context string binding derived keys to this
// protocol version. It must match on both sides of a session.
const hkdfInfo = "edgeclaw-session-v1"

// nonceSize is the AES-GCM nonce size in bytes: 4 zero bytes followed by an
// 8-byte big-endian counter.
const nonceSize = 12

// Session is an active, encrypted channel to a peer, keyed from an
// X25519-derived shared secret.
type Session struct {
	mu sync.Mutex

	id               string
	peerID           string
	state            SessionState
	createdAt        time.Time
	expiresAt        time.Time
	lastUsedAt       time.Time
	messagesSent     uint64
	messagesReceived uint64
	config           Config
	closed           bool

	aead    cipher.AEAD
	counter uint64
}

// New derives a session key from sharedSecret via HKDF-SHA256 and constructs
// an AES-256-GCM-backed Session in state Established, expiring after
// config.MaxAge (or the default 3600s if unset).
func New(id, peerID string, sharedSecret []byte, config Config) (*Session, error) {
	if len(sharedSecret) == 0 {
		return nil, errs.New(errs.InvalidParameter, "empty shared secret")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, sharedSecret, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errs.Wrap(errs.CryptoError, "failed to derive session key", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "failed to construct AES cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "failed to construct AES-GCM AEAD", err)
	}

	maxAge := config.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	now := time.Now()
	return &Session{
		id:         id,
		peerID:     peerID,
		state:      Established,
		createdAt:  now,
		expiresAt:  now.Add(maxAge),
		lastUsedAt: now,
		config:     config,
		aead:       aead,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// PeerID returns the identifier of the peer this session is bound to.
func (s *Session) PeerID() string { return s.peerID }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ExpiresAt returns when the session's current lifetime ends.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// LastUsedAt returns the last time the session encrypted or decrypted data.
func (s *Session) LastUsedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsedAt
}

// State returns the session's current lifecycle state, transitioning it to
// Expired first if its lifetime has elapsed.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isExpiredLocked()
	return s.state
}

// MessagesSent returns the number of messages this session has encrypted.
func (s *Session) MessagesSent() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messagesSent
}

// MessagesReceived returns the number of messages this session has decrypted.
func (s *Session) MessagesReceived() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messagesReceived
}

// Info returns a snapshot of every externally visible session attribute.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isExpiredLocked()
	return Info{
		SessionID:        s.id,
		PeerID:           s.peerID,
		State:            s.state,
		CreatedAt:        s.createdAt,
		ExpiresAt:        s.expiresAt,
		MessagesSent:     s.messagesSent,
		MessagesReceived: s.messagesReceived,
	}
}

// IsExpired reports whether the session has been closed or its lifetime has
// elapsed, transitioning its state to Expired as a side effect.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isExpiredLocked()
}

// IsActive reports whether the session is Established and not expired.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.isExpiredLocked() && s.state == Established
}

func (s *Session) isExpiredLocked() bool {
	if s.closed || s.state == Expired {
		return true
	}
	if !time.Now().Before(s.expiresAt) {
		s.state = Expired
		return true
	}
	return false
}

// Close marks the session closed and Expired, so every later Encrypt or
// Decrypt fails. The AEAD key state is not zeroed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.state = Expired
	return nil
}

// nextNonce returns the next strictly-increasing nonce: 4 zero bytes
// followed by the big-endian encoding of the session's shared counter.
func (s *Session) nextNonce() []byte {
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint64(nonce[4:], s.counter)
	s.counter++
	return nonce
}

// Encrypt seals plaintext under the session key, returning nonce || ciphertext.
// If the session's lifetime has elapsed it transitions to Expired and fails
// with SessionExpired.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isExpiredLocked() {
		return nil, errs.New(errs.SessionExpired, "session expired")
	}

	nonce := s.nextNonce()
	ciphertext := s.aead.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, len(nonce)+len(ciphertext))
	copy(out, nonce)
	copy(out[len(nonce):], ciphertext)

	s.lastUsedAt = time.Now()
	s.messagesSent++
	return out, nil
}

// Decrypt opens data produced by Encrypt (nonce || ciphertext). A framed
// length under the nonce size fails with InvalidParameter; an elapsed
// lifetime transitions the session to Expired and fails with SessionExpired;
// any authentication failure fails with CryptoError.
func (s *Session) Decrypt(data []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) < nonceSize {
		return nil, errs.New(errs.InvalidParameter, "ciphertext shorter than nonce")
	}
	if s.isExpiredLocked() {
		return nil, errs.New(errs.SessionExpired, "session expired")
	}

	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "decryption failed", err)
	}

	s.lastUsedAt = time.Now()
	s.messagesReceived++
	return plaintext, nil
}
