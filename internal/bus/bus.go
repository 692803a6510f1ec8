// Package bus abstracts the cross-window message transport. The dev host
// and the SDK facade speak only to Endpoints, so the same logic runs over
// in-process channel pairs (tests, single-binary play mode) and WebSocket
// connections (out-of-process game windows) without change.
//
// Delivery is FIFO per endpoint pair; no ordering is guaranteed across
// different endpoints or against the storage broadcast channel.
package bus

import "errors"

// ErrClosed is returned by Send after an endpoint has been closed.
var ErrClosed = errors.New("bus: endpoint closed")

// Endpoint is one side of a bidirectional message channel.
type Endpoint interface {
	// Send marshals v as JSON and delivers it to the peer. Best effort:
	// a send to a closed or detached peer returns an error that callers
	// are expected to swallow.
	Send(v any) error

	// OnMessage registers the inbound handler and starts delivery.
	// Messages arriving before registration are buffered, so subscription
	// order never causes a missed message. Only one handler is supported;
	// later calls replace the earlier handler.
	OnMessage(fn func(data []byte))

	// Close detaches the endpoint. Pending buffered messages are dropped.
	Close() error
}
