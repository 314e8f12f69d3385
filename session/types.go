package session

import "time"

// SessionState is a session's position in its lifecycle.
type SessionState int

const (
	Initiating SessionState = iota
	Established
	Expired
)

// String returns the stable, lowercase name of the state.
func (s SessionState) String() string {
	switch s {
	case Initiating:
		return "initiating"
	case Established:
		return "established"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Config defines a session's lifetime policy.
type Config struct {
	MaxAge time.Duration // absolute expiration since creation; default 3600s
}

// DefaultConfig mirrors the engine's default session policy: a 3600-second
// lifetime from creation, purely time-based.
func DefaultConfig() Config {
	return Config{
		MaxAge: time.Hour,
	}
}

// Stats summarizes the session manager's current state.
type Stats struct {
	TotalSessions   int
	ActiveSessions  int
	ExpiredSessions int
}

// Info is the externally visible snapshot of a Session, returned by
// CreateSession and GetSessionInfo: it carries every spec-level session
// attribute without exposing the key material or AEAD state.
type Info struct {
	SessionID        string
	PeerID           string
	State            SessionState
	CreatedAt        time.Time
	ExpiresAt        time.Time
	MessagesSent     uint64
	MessagesReceived uint64
}
