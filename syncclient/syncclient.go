// Package syncclient implements the typed sync-message layer that rides on
// top of ECNP: config sync, remote exec, status push, and the connection
// lifecycle a mobile agent drives against a desktop counterpart.
package syncclient

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/edgeclaw/core/ecnp"
	"github.com/edgeclaw/core/errs"
	"github.com/edgeclaw/core/internal/metrics"
	"github.com/edgeclaw/core/transport"
)

// Sub-type byte prefixed onto the JSON body of every SyncMessage before it
// is wrapped as an ECNP Data frame.
const (
	SyncConfig           byte = 0x10
	SyncRemoteExec       byte = 0x11
	SyncStatusPush       byte = 0x12
	SyncRemoteExecResult byte = 0x13
)

// Message is the tagged union of everything a sync client can send or
// receive. Only the fields of the variant named by Type are populated;
// remote_exec_result also carries Command from the remote_exec group.
type Message struct {
	Type string `json:"type"`

	// config_sync
	ConfigHash string `json:"config_hash,omitempty"`
	ConfigData string `json:"config_data,omitempty"`

	// remote_exec
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// status_push
	CPUUsage       float64 `json:"cpu_usage,omitempty"`
	MemoryUsage    float64 `json:"memory_usage,omitempty"`
	DiskUsage      float64 `json:"disk_usage,omitempty"`
	UptimeSecs     uint64  `json:"uptime_secs,omitempty"`
	ActiveSessions int     `json:"active_sessions,omitempty"`
	AIStatus       string  `json:"ai_status,omitempty"`

	// remote_exec_result
	ExitCode int    `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// NewConfigSync builds a config_sync message.
func NewConfigSync(configHash, configData string) Message {
	return Message{Type: "config_sync", ConfigHash: configHash, ConfigData: configData}
}

// NewRemoteExec builds a remote_exec message.
func NewRemoteExec(command string, args []string) Message {
	return Message{Type: "remote_exec", Command: command, Args: args}
}

// NewStatusPush builds a status_push message.
func NewStatusPush(cpuUsage, memoryUsage, diskUsage float64, uptimeSecs uint64, activeSessions int, aiStatus string) Message {
	return Message{
		Type:           "status_push",
		CPUUsage:       cpuUsage,
		MemoryUsage:    memoryUsage,
		DiskUsage:      diskUsage,
		UptimeSecs:     uptimeSecs,
		ActiveSessions: activeSessions,
		AIStatus:       aiStatus,
	}
}

// NewRemoteExecResult builds a remote_exec_result message.
func NewRemoteExecResult(command string, exitCode int, stdout, stderr string) Message {
	return Message{Type: "remote_exec_result", Command: command, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// subTypeCode returns the ECNP sub-type byte for the message's Type.
func (m Message) subTypeCode() (byte, error) {
	switch m.Type {
	case "config_sync":
		return SyncConfig, nil
	case "remote_exec":
		return SyncRemoteExec, nil
	case "status_push":
		return SyncStatusPush, nil
	case "remote_exec_result":
		return SyncRemoteExecResult, nil
	default:
		return 0, errs.New(errs.InvalidParameter, "unknown sync message type").WithDetails("type", m.Type)
	}
}

// EncodeECNP serializes the message to JSON, prefixes it with its sub-type
// byte, and wraps the result as an ECNP Data frame.
func (m Message) EncodeECNP() ([]byte, error) {
	subType, err := m.subTypeCode()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(m)
	if err != nil {
		return nil, errs.Wrap(errs.SerializationError, "failed to marshal sync message", err)
	}

	payload := make([]byte, 1+len(body))
	payload[0] = subType
	copy(payload[1:], body)

	return ecnp.Encode(ecnp.Data, payload)
}

// DecodeECNP unwraps an ECNP frame produced by EncodeECNP back into a Message.
func DecodeECNP(frame []byte) (Message, error) {
	msg, err := ecnp.Decode(frame)
	if err != nil {
		return Message{}, err
	}
	if msg.Type != ecnp.Data {
		return Message{}, errs.New(errs.SerializationError, "ECNP frame is not a Data frame").WithDetails("type", msg.Type.String())
	}
	if len(msg.Payload) == 0 {
		return Message{}, errs.New(errs.SerializationError, "sync message payload is empty")
	}

	var decoded Message
	if err := json.Unmarshal(msg.Payload[1:], &decoded); err != nil {
		return Message{}, errs.Wrap(errs.SerializationError, "failed to parse sync message", err)
	}
	return decoded, nil
}

// ConnectionState tracks where a sync client is in its connection lifecycle.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Handshaking
	Connected
	ConnectionError
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Handshaking:
		return "handshaking"
	case Connected:
		return "connected"
	case ConnectionError:
		return "error"
	default:
		return "unknown"
	}
}

// Config configures a Client's connection behavior.
type Config struct {
	DesktopAddress      string        `yaml:"desktop_address"`
	HeartbeatInterval   time.Duration `yaml:"heartbeat_interval"`
	StatusInterval      time.Duration `yaml:"status_interval"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout"`
	AutoReconnect       bool          `yaml:"auto_reconnect"`
	MaxReconnectAttempts int          `yaml:"max_reconnect_attempts"`
}

// DefaultConfig returns the sync client's default configuration.
func DefaultConfig() Config {
	return Config{
		DesktopAddress:       "127.0.0.1:8443",
		HeartbeatInterval:    30 * time.Second,
		StatusInterval:       30 * time.Second,
		ConnectTimeout:       10 * time.Second,
		AutoReconnect:        true,
		MaxReconnectAttempts: 0,
	}
}

// Stats tracks a client's lifetime traffic counters.
type Stats struct {
	MessagesSent     uint64
	MessagesReceived uint64
	ReconnectCount   uint64
	LastConfigHash   string
	LastStatusPush   *Message
}

// Client drives one sync connection to a desktop counterpart: dialing,
// handshaking, and exchanging typed sync messages over ECNP frames.
type Client struct {
	mu        sync.RWMutex
	config    Config
	selector  *transport.Selector
	conn      transport.Conn
	state     ConnectionState
	connected bool
	shutdown  bool
	stats     Stats
}

// NewClient creates a Client using the default transport.Selector (raw TCP
// only; register a WebSocket factory on a custom selector for LAN fallback).
func NewClient(config Config) *Client {
	return &Client{config: config, selector: transport.DefaultSelector, state: Disconnected}
}

// NewClientWithSelector creates a Client against a caller-supplied Selector,
// e.g. one with the WebSocket LAN-fallback factory registered.
func NewClientWithSelector(config Config, selector *transport.Selector) *Client {
	return &Client{config: config, selector: selector, state: Disconnected}
}

// State returns the client's current connection state.
func (c *Client) State() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the client believes it has a live connection.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Stats returns a snapshot of the client's traffic counters.
func (c *Client) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

const handshakeAck = byte(ecnp.Ack)

// handshakePayload is the JSON body sent as the ECNP Handshake frame.
type handshakePayload struct {
	Protocol     string   `json:"protocol"`
	Version      string   `json:"version"`
	ClientType   string   `json:"client_type"`
	Capabilities []string `json:"capabilities"`
}

// Connect dials the configured desktop address, performs the ECNP
// handshake, and leaves the client Connected on success. It opens, uses,
// and drops the stream within this call; callers own any subsequent
// read loop against the frames CreateRemoteExec/ProcessIncoming hand back.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return errs.New(errs.ConnectionError, "client has been shut down")
	}
	c.state = Connecting
	address := c.config.DesktopAddress
	c.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, err := c.selector.DialURL(dialCtx, address)
	if err != nil {
		c.setState(ConnectionError)
		return err
	}

	c.mu.Lock()
	c.state = Handshaking
	c.mu.Unlock()

	body, err := json.Marshal(handshakePayload{
		Protocol:     "ecnp",
		Version:      "1.1",
		ClientType:   "mobile",
		Capabilities: []string{"config_sync", "remote_exec", "status_push"},
	})
	if err != nil {
		conn.Close()
		c.setState(ConnectionError)
		return errs.Wrap(errs.SerializationError, "failed to marshal handshake payload", err)
	}

	frame, err := ecnp.Encode(ecnp.Handshake, body)
	if err != nil {
		conn.Close()
		c.setState(ConnectionError)
		return err
	}

	if deadline, ok := dialCtx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	if _, err := conn.Write(frame); err != nil {
		conn.Close()
		c.setState(ConnectionError)
		return errs.Wrap(errs.ConnectionError, "failed to write handshake frame", err)
	}

	header := make([]byte, ecnp.HeaderSize)
	if _, err := readFull(conn, header); err != nil {
		conn.Close()
		c.setState(ConnectionError)
		return errs.Wrap(errs.ConnectionError, "failed to read handshake response header", err)
	}

	if header[1] != handshakeAck {
		conn.Close()
		c.setState(ConnectionError)
		return errs.New(errs.ConnectionError, "desktop did not acknowledge handshake").WithDetails("type", header[1])
	}

	payloadLen := binary.BigEndian.Uint32(header[2:6])
	if payloadLen > 0 {
		ackPayload := make([]byte, payloadLen)
		if _, err := readFull(conn, ackPayload); err != nil {
			conn.Close()
			c.setState(ConnectionError)
			return errs.Wrap(errs.ConnectionError, "failed to read handshake ack payload", err)
		}
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.state = Connected
	c.mu.Unlock()

	return nil
}

func (c *Client) setState(state ConnectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// readFull reads exactly len(buf) bytes from conn.
func readFull(conn transport.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, errs.New(errs.ConnectionError, "connection closed before full read")
		}
	}
	return total, nil
}

// CreateRemoteExec builds a remote_exec sync message, encodes it as an ECNP
// frame, and records the send in the client's stats.
func (c *Client) CreateRemoteExec(command string, args []string) ([]byte, error) {
	frame, err := NewRemoteExec(command, args).EncodeECNP()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.stats.MessagesSent++
	c.mu.Unlock()
	metrics.SyncMessagesSent.WithLabelValues("remote_exec").Inc()

	return frame, nil
}

// ProcessIncoming decodes an ECNP-wrapped sync message, updates the
// client's stats and cached config/status snapshots, and returns the
// decoded message.
func (c *Client) ProcessIncoming(frame []byte) (Message, error) {
	msg, err := DecodeECNP(frame)
	if err != nil {
		return Message{}, err
	}

	c.mu.Lock()
	c.stats.MessagesReceived++
	switch msg.Type {
	case "config_sync":
		c.stats.LastConfigHash = msg.ConfigHash
	case "status_push":
		snapshot := msg
		c.stats.LastStatusPush = &snapshot
	}
	c.mu.Unlock()
	metrics.SyncMessagesReceived.WithLabelValues(msg.Type).Inc()

	return msg, nil
}

// Shutdown marks the client stopped and closes any open connection.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shutdown = true
	c.connected = false
	c.state = Disconnected

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
