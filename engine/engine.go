// Package engine composes the identity, session, peer, policy, and sync
// components into one thread-safe façade: the single entry point an edge
// agent process embeds.
package engine

import (
	"context"
	"sync"

	"github.com/edgeclaw/core/ecnp"
	"github.com/edgeclaw/core/errs"
	"github.com/edgeclaw/core/identity"
	"github.com/edgeclaw/core/internal/logger"
	"github.com/edgeclaw/core/peer"
	"github.com/edgeclaw/core/policy"
	"github.com/edgeclaw/core/protocol"
	"github.com/edgeclaw/core/session"
	"github.com/edgeclaw/core/syncclient"
)

// Config configures an Engine at construction time.
type Config struct {
	DeviceName     string `yaml:"device_name"`
	DeviceType     string `yaml:"device_type"`
	ListenPort     int    `yaml:"listen_port"`
	MaxConnections int    `yaml:"max_connections"`
	QuicEnabled    bool   `yaml:"quic_enabled"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		DeviceName:     "edgeclaw-device",
		DeviceType:     "smartphone",
		ListenPort:     8443,
		MaxConnections: 16,
		QuicEnabled:    false,
		LogLevel:       "info",
	}
}

// Engine is the zero-trust edge agent's trust-and-channel façade. Its
// managers are locked independently, never two at once, in the fixed order
// identity -> sessions -> peers -> sync.
type Engine struct {
	config Config

	identityMu sync.Mutex
	identity   *identity.Manager

	sessions *session.Manager
	peers    *peer.Manager
	policy   *policy.Engine

	syncMu     sync.Mutex
	syncClient *syncclient.Client
}

// New constructs an Engine with its managers initialized but no identity
// generated yet.
func New(config Config) *Engine {
	return &Engine{
		config:   config,
		identity: identity.NewManager(),
		sessions: session.NewManager(),
		peers:    peer.NewManager(),
		policy:   policy.NewEngine(),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// GenerateIdentity creates this device's Ed25519/X25519 identity.
func (e *Engine) GenerateIdentity() (*identity.DeviceIdentity, error) {
	e.identityMu.Lock()
	defer e.identityMu.Unlock()
	return e.identity.GenerateIdentity()
}

// GetIdentity returns the device's current identity.
func (e *Engine) GetIdentity() (*identity.DeviceIdentity, error) {
	e.identityMu.Lock()
	defer e.identityMu.Unlock()
	return e.identity.GetIdentity()
}

// AddPeer registers or updates a peer record.
func (e *Engine) AddPeer(peerID, deviceName, deviceType, address string, capabilities []string) peer.Info {
	return e.peers.AddPeer(peerID, deviceName, deviceType, address, capabilities)
}

// GetPeers returns every known peer.
func (e *Engine) GetPeers() []peer.Info {
	return e.peers.ListPeers()
}

// RemovePeer deletes a peer record.
func (e *Engine) RemovePeer(peerID string) {
	e.peers.RemovePeer(peerID)
}

// CreateSession derives and stores a new encrypted session with peerID,
// using this device's identity and the peer's X25519 exchange public key,
// and returns its Info snapshot (session id, peer id, state, timestamps,
// and message counters). The identity lock is released before the session
// manager is touched, so the two managers are never held at once.
func (e *Engine) CreateSession(peerID string, peerExchangePublicKey []byte) (session.Info, error) {
	e.identityMu.Lock()
	secret, err := e.identity.DeriveSharedSecret(peerExchangePublicKey)
	e.identityMu.Unlock()
	if err != nil {
		return session.Info{}, err
	}

	return e.sessions.CreateSession(peerID, secret)
}

// EncryptMessage encrypts plaintext under the named session.
func (e *Engine) EncryptMessage(sessionID string, plaintext []byte) ([]byte, error) {
	sess, ok := e.sessions.GetSession(sessionID)
	if !ok {
		return nil, errs.New(errs.InvalidParameter, "session not found").WithDetails("session_id", sessionID)
	}
	return sess.Encrypt(plaintext)
}

// DecryptMessage decrypts ciphertext under the named session.
func (e *Engine) DecryptMessage(sessionID string, ciphertext []byte) ([]byte, error) {
	sess, ok := e.sessions.GetSession(sessionID)
	if !ok {
		return nil, errs.New(errs.InvalidParameter, "session not found").WithDetails("session_id", sessionID)
	}
	return sess.Decrypt(ciphertext)
}

// CreateEcm builds this device's capability manifest payload.
func (e *Engine) CreateEcm() ([]byte, error) {
	e.identityMu.Lock()
	id, err := e.identity.GetIdentity()
	e.identityMu.Unlock()
	if err != nil {
		return nil, err
	}

	return protocol.CreateEcm(id.DeviceID, e.config.DeviceType, []string{"status", "file_read", "heartbeat"})
}

// CreateHeartbeat builds a heartbeat payload reporting current load and the
// number of active sessions.
func (e *Engine) CreateHeartbeat(uptimeSecs uint64, cpuUsage, memoryUsage float64) ([]byte, error) {
	e.identityMu.Lock()
	id, err := e.identity.GetIdentity()
	e.identityMu.Unlock()
	if err != nil {
		return nil, err
	}

	active := len(e.sessions.ActiveSessions())
	return protocol.CreateHeartbeat(id.DeviceID, uptimeSecs, cpuUsage, memoryUsage, active)
}

// EvaluateCapability checks whether role may exercise capabilityName. The
// policy engine holds no mutable state, so this needs no lock.
func (e *Engine) EvaluateCapability(capabilityName string, role policy.Role) policy.Decision {
	return e.policy.Evaluate(capabilityName, role)
}

// EncodeECNP wraps payload as an ECNP frame of the given type.
func (e *Engine) EncodeECNP(msgType ecnp.MessageType, payload []byte) ([]byte, error) {
	return ecnp.Encode(msgType, payload)
}

// DecodeECNP parses an ECNP frame.
func (e *Engine) DecodeECNP(frame []byte) (*ecnp.Message, error) {
	return ecnp.Decode(frame)
}

// InitSync replaces the engine's sync client with one configured per config.
func (e *Engine) InitSync(config syncclient.Config) {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()
	e.syncClient = syncclient.NewClient(config)
}

// SyncConnect connects the engine's sync client to its configured desktop
// counterpart.
func (e *Engine) SyncConnect(ctx context.Context) error {
	e.syncMu.Lock()
	client := e.syncClient
	e.syncMu.Unlock()

	if client == nil {
		return errs.New(errs.InvalidParameter, "sync client not initialized: call InitSync first")
	}
	return client.Connect(ctx)
}

// SyncRemoteExec builds a remote_exec sync frame through the engine's sync
// client and returns it. Nothing is transmitted; the caller sends the frame.
func (e *Engine) SyncRemoteExec(command string, args []string) ([]byte, error) {
	e.syncMu.Lock()
	client := e.syncClient
	e.syncMu.Unlock()

	if client == nil {
		return nil, errs.New(errs.InvalidParameter, "sync client not initialized: call InitSync first")
	}
	return client.CreateRemoteExec(command, args)
}

// SyncProcessIncoming decodes a frame received on the sync channel.
func (e *Engine) SyncProcessIncoming(frame []byte) (syncclient.Message, error) {
	e.syncMu.Lock()
	client := e.syncClient
	e.syncMu.Unlock()

	if client == nil {
		return syncclient.Message{}, errs.New(errs.InvalidParameter, "sync client not initialized: call InitSync first")
	}
	return client.ProcessIncoming(frame)
}

// SyncShutdown stops the engine's sync client.
func (e *Engine) SyncShutdown() error {
	e.syncMu.Lock()
	client := e.syncClient
	e.syncMu.Unlock()

	if client == nil {
		return nil
	}
	return client.Shutdown()
}

// SyncIsConnected reports whether the sync client currently has a live
// connection.
func (e *Engine) SyncIsConnected() bool {
	e.syncMu.Lock()
	client := e.syncClient
	e.syncMu.Unlock()

	if client == nil {
		return false
	}
	return client.IsConnected()
}

// LogEvent dispatches a message to the structured logger at the given level
// ("debug", "info", "warn", "error").
func (e *Engine) LogEvent(level, message string, fields ...logger.Field) {
	switch level {
	case "debug":
		logger.Debug(message, fields...)
	case "warn":
		logger.Warn(message, fields...)
	case "error":
		logger.ErrorMsg(message, fields...)
	default:
		logger.Info(message, fields...)
	}
}

// Close stops the session manager's background cleanup and releases its
// resources. It does not tear down the sync client; call SyncShutdown first
// if one was initialized.
func (e *Engine) Close() error {
	return e.sessions.Close()
}
