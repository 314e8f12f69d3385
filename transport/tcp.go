package transport

import (
	"context"
	"net"

	"github.com/edgeclaw/core/errs"
)

// DialTCP opens a raw TCP connection to address ("host:port"), the default
// wire transport a sync client speaks ECNP frames over.
func DialTCP(ctx context.Context, address string) (Conn, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errs.Wrap(errs.ConnectionError, "TCP dial failed", err)
	}
	return conn, nil
}
