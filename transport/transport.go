// Package transport abstracts the wire connection a sync client dials,
// letting the default raw-TCP stream and an optional WebSocket LAN fallback
// share one dispatch point keyed by URL scheme.
package transport

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/edgeclaw/core/errs"
)

// Conn is the minimal byte-stream contract a sync client needs: read, write,
// close, and deadline control, satisfied by both *net.TCPConn and the
// WebSocket adapter in the websocket subpackage.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
	SetDeadline(t time.Time) error
}

// DialFunc opens a Conn to address for a registered scheme.
type DialFunc func(ctx context.Context, address string) (Conn, error)

// Selector dispatches to a DialFunc by scheme, so callers can address a
// peer as a bare "host:port" (raw TCP) or a "ws://"/"wss://" URL.
type Selector struct {
	factories map[string]DialFunc
}

// NewSelector creates a Selector with the raw-TCP factory pre-registered
// under the empty scheme (used for bare host:port addresses).
func NewSelector() *Selector {
	s := &Selector{factories: make(map[string]DialFunc)}
	s.Register("", DialTCP)
	s.Register("tcp", DialTCP)
	return s
}

// Register installs a DialFunc for a URL scheme.
func (s *Selector) Register(scheme string, fn DialFunc) {
	s.factories[strings.ToLower(scheme)] = fn
}

// IsRegistered reports whether a scheme has a registered factory.
func (s *Selector) IsRegistered(scheme string) bool {
	_, ok := s.factories[strings.ToLower(scheme)]
	return ok
}

// DialURL inspects endpoint for a URL scheme ("ws://host/path",
// "wss://host/path") and dispatches to the matching factory; an endpoint
// with no scheme (a bare "host:port") dials raw TCP.
func (s *Selector) DialURL(ctx context.Context, endpoint string) (Conn, error) {
	if !strings.Contains(endpoint, "://") {
		return s.Dial(ctx, "", endpoint)
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParameter, "invalid endpoint URL", err)
	}
	return s.Dial(ctx, parsed.Scheme, endpoint)
}

// Dial opens a connection to address using the factory registered for scheme.
func (s *Selector) Dial(ctx context.Context, scheme, address string) (Conn, error) {
	fn, ok := s.factories[strings.ToLower(scheme)]
	if !ok {
		return nil, errs.New(errs.ConnectionError, "no transport registered for scheme").WithDetails("scheme", scheme)
	}
	conn, err := fn(ctx, address)
	if err != nil {
		return nil, errs.Wrap(errs.ConnectionError, "dial failed", err)
	}
	return conn, nil
}

// DefaultSelector is the package-level Selector used when callers don't need
// a custom one.
var DefaultSelector = NewSelector()
