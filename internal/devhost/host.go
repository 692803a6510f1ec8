// Package devhost implements the development surrogate for the Remix game
// platform backend. One Host per process serves ready handshakes, owns the
// durable game state, and fans state updates out to every registered client
// endpoint plus, through the broadcast bridge, to hosts in other processes
// sharing the same store.
package devhost

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pengulab/pengu-arcade/internal/bus"
	"github.com/pengulab/pengu-arcade/internal/protocol"
	"github.com/pengulab/pengu-arcade/internal/store"
)

// maxPlayers caps the roster for this game's multiplayer mode.
const maxPlayers = 2

// defaultReplyDelay mimics network latency on handshake replies and keeps
// request handling and reply delivery out of the same dispatch turn.
const defaultReplyDelay = 15 * time.Millisecond

// Delay before the demo mute fires after the first client registration.
// The matching unmute follows at twice the delay.
const defaultMuteDemoDelay = 3 * time.Second

// Options configures a Host.
type Options struct {
	GameName    string
	Multiplayer bool
	Store       *store.Store
	Logger      *log.Logger

	// ReplyDelay overrides the artificial handshake reply latency.
	// Zero means the default.
	ReplyDelay time.Duration

	// DisableMuteDemo suppresses the scripted mute/unmute cycle fired once
	// after the first client registers. The cycle runs by default and
	// proves the command channel works end to end.
	DisableMuteDemo bool

	// MuteDemoDelay overrides the delay before the demo mute fires; the
	// unmute follows at twice the delay. Zero means the default.
	MuteDemoDelay time.Duration
}

type inbound struct {
	clientID string
	endpoint bus.Endpoint
	raw      []byte
}

type client struct {
	id       string
	endpoint bus.Endpoint
}

// Host is the dev-mode server surrogate. It is the sole writer of the
// canonical stored state; clients only ever hold copies delivered by fan-out.
type Host struct {
	opts       Options
	hostID     string
	logger     *log.Logger
	replyDelay time.Duration
	demoDelay  time.Duration

	mu           sync.Mutex
	clients      []client        // fan-out order is registration order
	clientIndex  map[string]int  // clientID -> clients slice index
	handledReady map[string]bool // processed-once guard per clientID
	demoFired    bool

	obsMu     sync.Mutex
	observers map[int]func(protocol.Message)
	nextObsID int

	msgs         chan inbound
	done         chan struct{}
	stopOnce     sync.Once
	cancelBridge func()
}

// New constructs a Host. Call Start before registering clients.
func New(opts Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	delay := opts.ReplyDelay
	if delay == 0 {
		delay = defaultReplyDelay
	}
	demoDelay := opts.MuteDemoDelay
	if demoDelay == 0 {
		demoDelay = defaultMuteDemoDelay
	}
	return &Host{
		opts:         opts,
		hostID:       uuid.NewString(),
		logger:       logger,
		replyDelay:   delay,
		demoDelay:    demoDelay,
		clientIndex:  make(map[string]int),
		handledReady: make(map[string]bool),
		observers:    make(map[int]func(protocol.Message)),
		msgs:         make(chan inbound, 256),
		done:         make(chan struct{}),
	}
}

// HostID returns this host's broadcast sender identity.
func (h *Host) HostID() string {
	return h.hostID
}

// Start begins message processing and subscribes to the broadcast bridge.
func (h *Host) Start() {
	h.cancelBridge = h.watchBroadcast()
	go h.processMessages()
}

// Stop shuts the host down. Registered endpoints are not closed; their
// owners close them.
func (h *Host) Stop() {
	h.stopOnce.Do(func() {
		if h.cancelBridge != nil {
			h.cancelBridge()
		}
		close(h.done)
	})
}

// RegisterClient attaches an endpoint under clientID and starts routing its
// messages through the host. Idempotent: re-registering a known clientID
// replaces the endpoint reference (a reloaded window reconnecting) without
// minting new identity. An empty clientID mints one.
func (h *Host) RegisterClient(ep bus.Endpoint, clientID string) string {
	if clientID == "" {
		clientID = "client-" + uuid.NewString()
	}

	h.mu.Lock()
	if i, ok := h.clientIndex[clientID]; ok {
		h.clients[i].endpoint = ep
	} else {
		h.clientIndex[clientID] = len(h.clients)
		h.clients = append(h.clients, client{id: clientID, endpoint: ep})
	}
	first := !h.demoFired && !h.opts.DisableMuteDemo
	if first {
		h.demoFired = true
	}
	h.mu.Unlock()

	ep.OnMessage(func(raw []byte) {
		select {
		case h.msgs <- inbound{clientID: clientID, endpoint: ep, raw: raw}:
		case <-h.done:
		}
	})

	if first {
		h.scheduleMuteDemo()
	}

	h.logger.Debug("host: client registered", "clientId", clientID)
	return clientID
}

// Observe registers a same-process listener that receives every event the
// host emits, including events for unrecognized actions. This is the
// inspection surface panels and tests hang off of. The returned cancel func
// unregisters it.
func (h *Host) Observe(fn func(protocol.Message)) (cancel func()) {
	h.obsMu.Lock()
	id := h.nextObsID
	h.nextObsID++
	h.observers[id] = fn
	h.obsMu.Unlock()

	return func() {
		h.obsMu.Lock()
		delete(h.observers, id)
		h.obsMu.Unlock()
	}
}

func (h *Host) processMessages() {
	for {
		select {
		case in := <-h.msgs:
			h.handleRaw(in)
		case <-h.done:
			return
		}
	}
}

func (h *Host) handleRaw(in inbound) {
	var msg protocol.Message
	if err := json.Unmarshal(in.raw, &msg); err != nil {
		h.logger.Warn("host: discarding unparseable message", "clientId", in.clientID, "error", err)
		return
	}
	if msg.FromDevHost {
		// Our own fan-out reflected back by a loopback endpoint.
		return
	}

	switch msg.Type {
	case protocol.MsgHostRequest:
		h.sendTo(in.endpoint, in.clientID, protocol.NewHostReadyAck())
	case protocol.MsgHostCommand:
		h.handleCommand(msg)
	case protocol.MsgGameEvent:
		if msg.Event == nil {
			return
		}
		h.handleAction(in, *msg.Event)
	default:
		h.notifyObservers(msg)
	}
}

func (h *Host) handleCommand(msg protocol.Message) {
	switch msg.Command {
	case protocol.CommandPlayAgain:
		h.TriggerPlayAgain()
	case protocol.CommandToggleMute:
		var mute protocol.MuteState
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &mute); err != nil {
				h.logger.Warn("host: bad toggle_mute payload", "error", err)
				return
			}
		}
		h.TriggerMute(mute.IsMuted)
	case protocol.CommandResetState:
		h.ResetState()
	default:
		h.logger.Warn("host: unknown command", "command", msg.Command)
	}
}

func (h *Host) handleAction(in inbound, ev protocol.GameEvent) {
	switch ev.Type {
	case protocol.ActionReady:
		h.handleReady(in, ev)
	case protocol.ActionSaveGameState, protocol.ActionMultiplayerSaveState:
		h.handleSave(ev)
	case protocol.ActionMultiplayerGameOver:
		h.handleMultiplayerGameOver(ev)
	case protocol.ActionGameOver:
		var req protocol.GameOverRequest
		if err := ev.DecodeData(&req); err == nil {
			h.logger.Info("host: game over", "score", req.Score)
		}
		h.notifyObservers(protocol.NewHostEvent(ev.Type, json.RawMessage(ev.Data)))
	case protocol.ActionRefuteGameState:
		var req protocol.RefuteRequest
		if err := ev.DecodeData(&req); err == nil {
			h.logger.Info("host: game state refuted", "gameStateId", req.GameStateID)
		}
		h.notifyObservers(protocol.NewHostEvent(ev.Type, json.RawMessage(ev.Data)))
	case protocol.ActionHapticFeedback:
		h.logger.Debug("host: haptic feedback", "clientId", in.clientID)
	case protocol.ActionError:
		h.logger.Error("host: client error report", "clientId", in.clientID, "payload", string(ev.Data))
		h.notifyObservers(protocol.NewHostEvent(ev.Type, json.RawMessage(ev.Data)))
	default:
		// Unrecognized actions surface on the observability channel
		// untouched so protocol drift stays visible.
		h.logger.Warn("host: unrecognized action", "type", ev.Type)
		h.notifyObservers(protocol.NewHostEvent(ev.Type, json.RawMessage(ev.Data)))
	}
}

func (h *Host) handleReady(in inbound, ev protocol.GameEvent) {
	var hints protocol.ReadyHints
	if err := ev.DecodeData(&hints); err != nil {
		h.logger.Warn("host: bad ready payload", "clientId", in.clientID, "error", err)
		return
	}
	clientID := hints.ClientID
	if clientID == "" {
		clientID = in.clientID
	}

	h.mu.Lock()
	if h.handledReady[clientID] {
		h.mu.Unlock()
		h.logger.Debug("host: duplicate ready ignored", "clientId", clientID)
		return
	}
	h.handledReady[clientID] = true
	h.mu.Unlock()

	// Re-read rather than trust in-memory state: another host sharing the
	// store may have changed it since our last write.
	st := h.loadState()
	assignments := h.loadAssignments()

	playerID := h.resolvePlayer(hints, clientID, st, assignments)
	assignments[clientID] = playerID
	h.persistAssignments(assignments)

	st.Players = upsertPlayer(st.Players, playerID, hints.PlayerName)
	if !h.opts.Multiplayer {
		// Single-player keeps exactly one roster entry even when stale
		// multiplayer data is lying around.
		st.Players = trimToPlayer(st.Players, playerID)
	}
	h.persistState(st)

	info := protocol.GameInfo{
		Players:          st.Players,
		Player:           findPlayer(st.Players, playerID),
		ViewContext:      protocol.ViewContextFullScreen,
		InitialGameState: st.GameState,
	}

	h.logger.Info("host: handshake served", "clientId", clientID, "playerId", playerID)

	ep := in.endpoint
	time.AfterFunc(h.replyDelay, func() {
		h.sendTo(ep, clientID, protocol.NewHostEvent(protocol.EventGameInfo, info))
	})
}

// resolvePlayer applies the assignment precedence chain: explicit hint,
// existing assignment, then mode-specific synthesis.
func (h *Host) resolvePlayer(hints protocol.ReadyHints, clientID string, st protocol.StoredState, assignments map[string]string) string {
	if hints.PlayerID != "" {
		for _, p := range st.Players {
			if p.ID == hints.PlayerID {
				return hints.PlayerID
			}
		}
		if len(st.Players) < maxPlayers {
			return hints.PlayerID
		}
		// A hint naming a new player while the roster is full collides
		// with player "1", same as synthesized assignments at the cap.
		return "1"
	}
	if assigned, ok := assignments[clientID]; ok {
		return assigned
	}
	if !h.opts.Multiplayer {
		return "1"
	}

	taken := make(map[string]bool, len(assignments))
	for _, pid := range assignments {
		taken[pid] = true
	}
	for _, p := range st.Players {
		if !taken[p.ID] {
			return p.ID
		}
	}
	if len(st.Players) < maxPlayers {
		return fmt.Sprintf("%d", len(st.Players)+1)
	}
	// Cap reached: collide with player "1" rather than reject.
	return "1"
}

func (h *Host) handleSave(ev protocol.GameEvent) {
	var raw map[string]any
	if err := ev.DecodeData(&raw); err != nil {
		h.logger.Warn("host: bad save payload", "error", err)
		return
	}

	norm := protocol.NormalizeMap(raw)
	gameState, _ := norm["gameState"].(map[string]any)
	var alertIDs []string
	if list, ok := norm["alertUserIds"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				alertIDs = append(alertIDs, s)
			}
		}
	}

	env := protocol.NewEnvelope(gameState, alertIDs)

	st := h.loadState()
	st.GameState = env
	if pid, ok := protocol.DeriveTurn(gameState); ok {
		st.CurrentPlayerID = &pid
		st.Players = ensurePlayer(st.Players, pid)
	}
	h.persistState(st)
	h.appendSnapshot(env)

	h.logger.Debug("host: state saved", "envelopeId", env.ID)
	h.fanOut(protocol.NewHostEvent(protocol.EventGameStateUpdated, env))
	h.publishBroadcast(protocol.EventGameStateUpdated, env)
}

func (h *Host) handleMultiplayerGameOver(ev protocol.GameEvent) {
	var req protocol.MultiplayerGameOverRequest
	if err := ev.DecodeData(&req); err != nil {
		h.logger.Warn("host: bad multiplayer game-over payload", "error", err)
		return
	}

	st := h.loadState()
	st.GameState = nil
	st.CurrentPlayerID = nil
	h.persistState(st)

	// The next match starts a fresh assignment round; players survive so
	// names and scores stay attached to their ids.
	h.opts.Store.Remove(store.AssignmentsKey(h.opts.GameName))

	h.logger.Info("host: multiplayer game over", "scores", len(req.Scores))
	h.fanOut(protocol.NewHostEvent(protocol.EventMultiplayerOver, req))
	h.publishBroadcast(protocol.EventMultiplayerOver, req)
}

// ResetState wipes everything: default state persisted, assignments and
// snapshots removed, registered clients and handshake dedup forgotten.
func (h *Host) ResetState() {
	h.opts.Store.SetJSON(store.StateKey(h.opts.GameName), protocol.DefaultStoredState())
	h.opts.Store.Remove(store.AssignmentsKey(h.opts.GameName))
	h.opts.Store.Remove(store.SnapshotsKey(h.opts.GameName))

	h.mu.Lock()
	h.clients = nil
	h.clientIndex = make(map[string]int)
	h.handledReady = make(map[string]bool)
	h.mu.Unlock()

	h.logger.Info("host: state reset", "game", h.opts.GameName)
}

// TriggerMute pushes a mute toggle to every registered client, or to
// same-process observers when no client has registered yet.
func (h *Host) TriggerMute(muted bool) {
	h.deliverCommandEvent(protocol.NewHostEvent(protocol.EventToggleMute, protocol.MuteState{IsMuted: muted}))
}

// TriggerPlayAgain pushes a restart signal the same way.
func (h *Host) TriggerPlayAgain() {
	h.deliverCommandEvent(protocol.NewHostEvent(protocol.EventPlayAgain, nil))
}

func (h *Host) deliverCommandEvent(msg protocol.Message) {
	h.mu.Lock()
	n := len(h.clients)
	h.mu.Unlock()

	if n == 0 {
		h.notifyObservers(msg)
		return
	}
	h.fanOut(msg)
}

func (h *Host) scheduleMuteDemo() {
	time.AfterFunc(h.demoDelay, func() { h.TriggerMute(true) })
	time.AfterFunc(2*h.demoDelay, func() { h.TriggerMute(false) })
}

// fanOut delivers msg to every registered client in registration order and
// to same-process observers. Individual send failures are logged and do not
// abort delivery to the remaining endpoints.
func (h *Host) fanOut(msg protocol.Message) {
	h.mu.Lock()
	targets := make([]client, len(h.clients))
	copy(targets, h.clients)
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.endpoint.Send(msg); err != nil {
			h.logger.Warn("host: fan-out send failed", "clientId", c.id, "error", err)
		}
	}
	h.notifyObservers(msg)
}

func (h *Host) sendTo(ep bus.Endpoint, clientID string, msg protocol.Message) {
	if err := ep.Send(msg); err != nil {
		h.logger.Warn("host: send failed", "clientId", clientID, "error", err)
	}
}

func (h *Host) notifyObservers(msg protocol.Message) {
	h.obsMu.Lock()
	fns := make([]func(protocol.Message), 0, len(h.observers))
	for _, fn := range h.observers {
		fns = append(fns, fn)
	}
	h.obsMu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

func (h *Host) loadState() protocol.StoredState {
	st := protocol.DefaultStoredState()
	h.opts.Store.GetJSON(store.StateKey(h.opts.GameName), &st)
	if st.Players == nil {
		st.Players = []protocol.Player{}
	}
	return st
}

func (h *Host) persistState(st protocol.StoredState) {
	h.opts.Store.SetJSON(store.StateKey(h.opts.GameName), st)
}

func (h *Host) loadAssignments() map[string]string {
	assignments := make(map[string]string)
	h.opts.Store.GetJSON(store.AssignmentsKey(h.opts.GameName), &assignments)
	return assignments
}

func (h *Host) persistAssignments(assignments map[string]string) {
	h.opts.Store.SetJSON(store.AssignmentsKey(h.opts.GameName), assignments)
}

// snapshotLimit bounds the saved-state history list.
const snapshotLimit = 20

func (h *Host) appendSnapshot(env *protocol.GameStateEnvelope) {
	key := store.SnapshotsKey(h.opts.GameName)
	var snaps []*protocol.GameStateEnvelope
	h.opts.Store.GetJSON(key, &snaps)
	snaps = append(snaps, env)
	if len(snaps) > snapshotLimit {
		snaps = snaps[len(snaps)-snapshotLimit:]
	}
	h.opts.Store.SetJSON(key, snaps)
}

func upsertPlayer(players []protocol.Player, id, name string) []protocol.Player {
	for i, p := range players {
		if p.ID == id {
			if name != "" && name != p.Name {
				players[i].Name = name
			}
			return players
		}
	}
	if name == "" {
		name = "Player " + id
	}
	return append(players, protocol.Player{ID: id, Name: name})
}

func trimToPlayer(players []protocol.Player, id string) []protocol.Player {
	for _, p := range players {
		if p.ID == id {
			return []protocol.Player{p}
		}
	}
	return players
}

func ensurePlayer(players []protocol.Player, id string) []protocol.Player {
	if len(players) >= maxPlayers {
		return players
	}
	return upsertPlayer(players, id, "")
}

func findPlayer(players []protocol.Player, id string) protocol.Player {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return protocol.Player{ID: id, Name: "Player " + id}
}
