// Package sdk is the client-side surface game code calls. It mirrors the
// production platform SDK: a one-shot ready handshake that resolves with the
// assigned player identity, fire-and-forget action sends, and generic event
// subscription. Everything rides over a single bus endpoint to the host.
package sdk

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pengulab/pengu-arcade/internal/bus"
	"github.com/pengulab/pengu-arcade/internal/identity"
	"github.com/pengulab/pengu-arcade/internal/protocol"
)

// ReadyFuture is the pending result of the ready handshake. It resolves at
// most once, only when the host delivers a game_info event, and never times
// out on its own: a host that never answers leaves Await blocked until the
// caller's context expires.
type ReadyFuture struct {
	done chan struct{}
	once sync.Once
	info protocol.GameInfo
}

func newReadyFuture() *ReadyFuture {
	return &ReadyFuture{done: make(chan struct{})}
}

func (f *ReadyFuture) resolve(info protocol.GameInfo) {
	f.once.Do(func() {
		f.info = info
		close(f.done)
	})
}

// Await blocks until the handshake resolves or ctx is done.
func (f *ReadyFuture) Await(ctx context.Context) (protocol.GameInfo, error) {
	select {
	case <-f.done:
		return f.info, nil
	case <-ctx.Done():
		return protocol.GameInfo{}, ctx.Err()
	}
}

// Resolved reports whether the handshake has completed, without blocking.
func (f *ReadyFuture) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Facade is one game instance's connection to the dev host.
type Facade struct {
	target      bus.Endpoint
	wctx        *identity.WindowContext
	multiplayer bool
	logger      *log.Logger

	readyOnce sync.Once
	ready     *ReadyFuture

	subs *subscriptions
}

// New wires a facade to its target endpoint and immediately announces itself
// with a host request, matching the construction-time registration of the
// emulated SDK. The endpoint's inbound side is claimed by the facade.
func New(target bus.Endpoint, wctx *identity.WindowContext, multiplayer bool, logger *log.Logger) *Facade {
	if logger == nil {
		logger = log.Default()
	}
	f := &Facade{
		target:      target,
		wctx:        wctx,
		multiplayer: multiplayer,
		logger:      logger,
		ready:       newReadyFuture(),
		subs:        newSubscriptions(),
	}
	target.OnMessage(f.handleMessage)
	f.send(protocol.NewHostRequest(multiplayer, wctx.ClientID()))
	return f
}

// Ready sends the handshake at most once and always returns the same future.
// Repeat callers share the single pending or resolved result.
func (f *Facade) Ready() *ReadyFuture {
	f.readyOnce.Do(func() {
		hints := identity.Resolve(f.wctx)
		f.send(protocol.NewClientEvent(protocol.ActionReady, protocol.ReadyHints{
			ClientID:   hints.ClientID,
			PlayerID:   hints.PlayerID,
			PlayerName: hints.PlayerName,
		}))
	})
	return f.ready
}

// SaveGameState ships the current game state to the host, which is the sole
// writer of durable state. The multiplayer flag picks the action variant.
func (f *Facade) SaveGameState(gameState map[string]any, alertUserIDs ...string) {
	action := protocol.ActionSaveGameState
	if f.multiplayer {
		action = protocol.ActionMultiplayerSaveState
	}
	f.send(protocol.NewClientEvent(action, protocol.SaveRequest{
		GameState:    gameState,
		AlertUserIDs: alertUserIDs,
	}))
}

// GameOver reports the single-player final score.
func (f *Facade) GameOver(score int) {
	f.send(protocol.NewClientEvent(protocol.ActionGameOver, protocol.GameOverRequest{Score: score}))
}

// MultiplayerGameOver reports per-player final scores.
func (f *Facade) MultiplayerGameOver(scores []protocol.PlayerScore) {
	f.send(protocol.NewClientEvent(protocol.ActionMultiplayerGameOver, protocol.MultiplayerGameOverRequest{Scores: scores}))
}

// RefuteGameState disputes a broadcast envelope by id. Forwarded for host
// visibility only; no consensus happens at this layer.
func (f *Facade) RefuteGameState(gameStateID string) {
	f.send(protocol.NewClientEvent(protocol.ActionRefuteGameState, protocol.RefuteRequest{GameStateID: gameStateID}))
}

// HapticFeedback is best effort and always succeeds from the caller's view.
func (f *Facade) HapticFeedback() {
	f.send(protocol.NewClientEvent(protocol.ActionHapticFeedback, nil))
}

// ReportError ships crash telemetry to the host.
func (f *Facade) ReportError(payload any) {
	f.send(protocol.NewClientEvent(protocol.ActionError, payload))
}

// send is fire and forget. Nothing in this layer surfaces transport errors
// to game code.
func (f *Facade) send(msg protocol.Message) {
	if err := f.target.Send(msg); err != nil {
		f.logger.Warn("sdk: send failed", "type", msg.Type, "error", err)
	}
}

func (f *Facade) handleMessage(raw []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	if msg.Type == protocol.MsgHostReady {
		f.subs.markHostReady()
		return
	}

	// Only host-originated game events are consumed; peer outbound traffic
	// sharing the channel is ignored.
	if !msg.FromDevHost || msg.Type != protocol.MsgGameEvent || msg.Event == nil {
		return
	}

	if msg.Event.Type == protocol.EventGameInfo {
		var info protocol.GameInfo
		if err := msg.Event.DecodeData(&info); err != nil {
			f.logger.Warn("sdk: bad game_info payload", "error", err)
			return
		}
		f.ready.resolve(info)
		return
	}

	f.subs.dispatch(msg.Event.Type, msg.Event.Data)
}

// Guard runs fn and converts a panic into an error report instead of
// crashing the window. The companion of the global error interception the
// emulated platform installs.
func (f *Facade) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("sdk: captured panic", "panic", r)
			f.ReportError(map[string]any{"message": "uncaught panic", "detail": toString(r)})
		}
	}()
	fn()
}

// Go runs fn on its own goroutine under Guard.
func (f *Facade) Go(fn func()) {
	go f.Guard(fn)
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "unserializable panic value"
	}
	return string(raw)
}
