package sdk

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/pengulab/pengu-arcade/internal/protocol"
)

// HostReadyEvent is the synthetic subscription name for the host
// acknowledgement signal. It replays to late subscribers.
const HostReadyEvent = "host_ready"

// ErrReservedEvent is returned when subscribing to the handshake-completion
// event. game_info is deliberately only reachable through Ready().Await so
// a subscription registered after the reply can never silently miss it.
var ErrReservedEvent = errors.New("sdk: game_info is reserved, use Ready()")

type subscriptions struct {
	mu        sync.Mutex
	handlers  map[string]map[int]func(json.RawMessage)
	nextID    int
	hostReady bool
}

func newSubscriptions() *subscriptions {
	return &subscriptions{handlers: make(map[string]map[int]func(json.RawMessage))}
}

// On subscribes fn to host events of the given type. The returned cancel
// func removes the subscription. Subscribing to HostReadyEvent after the
// host has already acknowledged replays the signal asynchronously, so
// subscription order versus host readiness never loses the notification.
func (f *Facade) On(eventType string, fn func(data json.RawMessage)) (cancel func(), err error) {
	if eventType == protocol.EventGameInfo {
		return nil, ErrReservedEvent
	}
	return f.subs.add(eventType, fn), nil
}

func (s *subscriptions) add(eventType string, fn func(json.RawMessage)) (cancel func()) {
	s.mu.Lock()
	if s.handlers[eventType] == nil {
		s.handlers[eventType] = make(map[int]func(json.RawMessage))
	}
	id := s.nextID
	s.nextID++
	s.handlers[eventType][id] = fn
	replay := eventType == HostReadyEvent && s.hostReady
	s.mu.Unlock()

	if replay {
		go fn(nil)
	}

	return func() {
		s.mu.Lock()
		delete(s.handlers[eventType], id)
		s.mu.Unlock()
	}
}

func (s *subscriptions) markHostReady() {
	s.mu.Lock()
	s.hostReady = true
	s.mu.Unlock()
	s.dispatch(HostReadyEvent, nil)
}

func (s *subscriptions) dispatch(eventType string, data json.RawMessage) {
	s.mu.Lock()
	fns := make([]func(json.RawMessage), 0, len(s.handlers[eventType]))
	for _, fn := range s.handlers[eventType] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(data)
	}
}
