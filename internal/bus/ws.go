package bus

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsReadLimit    = 1 << 20 // 1MB
	wsSendBuffer   = 64
)

// Upgrader accepts any origin: the dev host is a localhost development
// tool, not an internet-facing service.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WSEndpoint adapts a WebSocket connection to the Endpoint interface using
// the usual read/write pump split: Send enqueues onto a buffered channel
// drained by a single writer goroutine, and OnMessage starts the reader.
type WSEndpoint struct {
	conn *websocket.Conn
	send chan []byte

	mu        sync.Mutex
	handler   func([]byte)
	reading   bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewWSEndpoint wraps an upgraded connection and starts its write pump.
func NewWSEndpoint(conn *websocket.Conn) *WSEndpoint {
	e := &WSEndpoint{
		conn: conn,
		send: make(chan []byte, wsSendBuffer),
		done: make(chan struct{}),
	}
	go e.writePump()
	return e
}

func (e *WSEndpoint) Send(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case <-e.done:
		return ErrClosed
	case e.send <- raw:
		return nil
	default:
		// Queue full: the peer window is stuck or gone. Drop rather
		// than block the host's fan-out.
		return ErrClosed
	}
}

func (e *WSEndpoint) OnMessage(fn func(data []byte)) {
	e.mu.Lock()
	e.handler = fn
	start := !e.reading
	e.reading = true
	e.mu.Unlock()

	if start {
		go e.readPump()
	}
}

func (e *WSEndpoint) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
	})
	return e.conn.Close()
}

// Done closes when the connection ends from either side.
func (e *WSEndpoint) Done() <-chan struct{} {
	return e.done
}

func (e *WSEndpoint) writePump() {
	defer e.conn.Close()
	for {
		select {
		case raw := <-e.send:
			e.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := e.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				e.Close()
				return
			}
		case <-e.done:
			return
		}
	}
}

func (e *WSEndpoint) readPump() {
	defer e.Close()
	e.conn.SetReadLimit(wsReadLimit)

	for {
		_, raw, err := e.conn.ReadMessage()
		if err != nil {
			return
		}
		e.mu.Lock()
		h := e.handler
		e.mu.Unlock()
		if h != nil {
			h(raw)
		}
	}
}
