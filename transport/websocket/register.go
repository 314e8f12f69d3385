package websocket

import "github.com/edgeclaw/core/transport"

// Register installs the WebSocket dial factory on selector under the "ws"
// and "wss" schemes. Call this explicitly to opt a sync client into the LAN
// fallback channel; the default transport.Selector only speaks raw TCP.
func Register(selector *transport.Selector) {
	selector.Register("ws", Dial)
	selector.Register("wss", Dial)
}
