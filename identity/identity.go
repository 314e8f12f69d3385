// Package identity manages a device's cryptographic identity: an Ed25519
// signing key for authentication and an X25519 key for session agreement,
// bound together under one device ID and fingerprint.
package identity

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgeclaw/core/errs"
)

// DeviceIdentity is the public, shareable face of a device's identity.
type DeviceIdentity struct {
	DeviceID     string
	PublicKeyHex string
	Fingerprint  string
	CreatedAt    time.Time
}

// Manager generates and holds a device's signing and exchange key pairs.
// It is safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	deviceID   string
	signPub    ed25519.PublicKey
	signPriv   ed25519.PrivateKey
	exchPriv   *ecdh.PrivateKey
	exchPub    *ecdh.PublicKey
	createdAt  time.Time
	generated  bool
}

// NewManager creates an empty identity manager. Call GenerateIdentity before
// using any other method.
func NewManager() *Manager {
	return &Manager{}
}

// GenerateIdentity creates a fresh Ed25519 signing key pair and X25519
// exchange key pair, assigns a random UUID device ID, and derives the
// fingerprint from the signing public key.
func (m *Manager) GenerateIdentity() (*DeviceIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	signPub, signPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "failed to generate Ed25519 signing key", err)
	}

	exchPriv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "failed to generate X25519 exchange key", err)
	}

	m.signPub = signPub
	m.signPriv = signPriv
	m.exchPriv = exchPriv
	m.exchPub = exchPriv.PublicKey()
	m.deviceID = uuid.New().String()
	m.createdAt = time.Now()
	m.generated = true

	return m.identityLocked(), nil
}

// GetIdentity returns the current public identity, or an error if one has
// not yet been generated.
func (m *Manager) GetIdentity() (*DeviceIdentity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.generated {
		return nil, errs.New(errs.InvalidParameter, "identity not yet generated")
	}
	return m.identityLocked(), nil
}

// identityLocked builds a DeviceIdentity snapshot. Callers must hold m.mu.
func (m *Manager) identityLocked() *DeviceIdentity {
	sum := sha256.Sum256(m.signPub)
	return &DeviceIdentity{
		DeviceID:     m.deviceID,
		PublicKeyHex: hex.EncodeToString(m.signPub),
		Fingerprint:  hex.EncodeToString(sum[:8]),
		CreatedAt:    m.createdAt,
	}
}

// Sign signs message with the device's Ed25519 signing key.
func (m *Manager) Sign(message []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.generated {
		return nil, errs.New(errs.InvalidParameter, "identity not yet generated")
	}
	return ed25519.Sign(m.signPriv, message), nil
}

// Verify checks signature against message using this device's own public key.
func (m *Manager) Verify(message, signature []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.generated {
		return false
	}
	return ed25519.Verify(m.signPub, message, signature)
}

// ExchangePublicKey returns the raw 32-byte X25519 public key used for
// session key agreement.
func (m *Manager) ExchangePublicKey() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.generated {
		return nil, errs.New(errs.InvalidParameter, "identity not yet generated")
	}
	return m.exchPub.Bytes(), nil
}

// DeriveSharedSecret performs X25519 ECDH against a peer's raw 32-byte
// exchange public key, returning the raw shared secret.
func (m *Manager) DeriveSharedSecret(peerExchangePublicKey []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.generated {
		return nil, errs.New(errs.InvalidParameter, "identity not yet generated")
	}

	peerPub, err := ecdh.X25519().NewPublicKey(peerExchangePublicKey)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "invalid peer X25519 public key", err)
	}

	secret, err := m.exchPriv.ECDH(peerPub)
	if err != nil {
		return nil, errs.Wrap(errs.CryptoError, "X25519 key agreement failed", err)
	}
	return secret, nil
}
