package bus

import (
	"encoding/json"
	"sync"
)

// pipeBuffer bounds how many undelivered messages one direction can hold.
// The dev protocol is low-volume; a full buffer indicates a stuck consumer
// and further sends fail rather than block the sender's loop.
const pipeBuffer = 256

// Pipe returns two connected in-process endpoints. Whatever is sent on one
// side is delivered, in order, to the other side's handler.
func Pipe() (Endpoint, Endpoint) {
	a := newPipeEndpoint()
	b := newPipeEndpoint()
	a.peer = b
	b.peer = a
	return a, b
}

type pipeEndpoint struct {
	peer *pipeEndpoint

	in   chan []byte
	done chan struct{}

	mu        sync.Mutex
	handler   func([]byte)
	started   bool
	closeOnce sync.Once
}

func newPipeEndpoint() *pipeEndpoint {
	return &pipeEndpoint{
		in:   make(chan []byte, pipeBuffer),
		done: make(chan struct{}),
	}
}

func (p *pipeEndpoint) Send(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	peer := p.peer
	select {
	case <-peer.done:
		return ErrClosed
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case peer.in <- raw:
		return nil
	default:
		return ErrClosed
	}
}

func (p *pipeEndpoint) OnMessage(fn func(data []byte)) {
	p.mu.Lock()
	p.handler = fn
	start := !p.started
	p.started = true
	p.mu.Unlock()

	if !start {
		return
	}

	go func() {
		for {
			select {
			case raw := <-p.in:
				p.mu.Lock()
				h := p.handler
				p.mu.Unlock()
				if h != nil {
					h(raw)
				}
			case <-p.done:
				return
			}
		}
	}()
}

func (p *pipeEndpoint) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	return nil
}
