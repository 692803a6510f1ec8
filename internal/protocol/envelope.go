// Package protocol defines the wire shapes exchanged between game clients
// and the Remix dev host. Field names are contractual: the dev host emulates
// the production platform, so serialized output must be byte-compatible with
// what production senders and receivers expect.
package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message type discriminators. The double-underscore names are reserved
// coordination messages; everything else rides inside a "game_event".
const (
	MsgGameEvent   = "game_event"
	MsgHostRequest = "__remix_dev_host_request__"
	MsgHostReady   = "__remix_dev_host_ready__"
	MsgHostCommand = "__remix_dev_host_command__"
)

// Out-of-band host commands.
const (
	CommandPlayAgain  = "play_again"
	CommandToggleMute = "toggle_mute"
	CommandResetState = "reset_state"
)

// ViewContextFullScreen is the only view context the dev host serves.
const ViewContextFullScreen = "full_screen"

// GameEvent is the inner payload of a game_event message in either direction.
type GameEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the event payload into dst. A missing payload leaves
// dst untouched and reports success, matching the tolerant read semantics of
// the emulated platform.
func (e GameEvent) DecodeData(dst any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, dst)
}

// Message is the unified cross-endpoint envelope. Exactly one of the optional
// field groups is populated depending on Type.
type Message struct {
	// FromDevHost marks host-originated traffic so a client never mistakes
	// a reply for another client's outbound message.
	FromDevHost bool `json:"__fromRemixDevHost,omitempty"`

	Type  string     `json:"type"`
	Event *GameEvent `json:"event,omitempty"`

	// Host request fields.
	Multiplayer bool   `json:"multiplayer,omitempty"`
	ClientID    string `json:"clientId,omitempty"`

	// Host command fields.
	Command string          `json:"command,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewClientEvent builds a client-to-host game_event message. Marshal failures
// surface as an empty payload: the dev channel never throws on send.
func NewClientEvent(eventType string, data any) Message {
	return Message{
		Type:  MsgGameEvent,
		Event: &GameEvent{Type: eventType, Data: marshalLenient(data)},
	}
}

// NewHostEvent builds a host-to-client game_event message carrying the
// dev-host marker.
func NewHostEvent(eventType string, data any) Message {
	return Message{
		FromDevHost: true,
		Type:        MsgGameEvent,
		Event:       &GameEvent{Type: eventType, Data: marshalLenient(data)},
	}
}

// NewHostRequest builds the child-to-parent message used to locate a host.
func NewHostRequest(multiplayer bool, clientID string) Message {
	return Message{Type: MsgHostRequest, Multiplayer: multiplayer, ClientID: clientID}
}

// NewHostReadyAck builds the acknowledgement for a host request.
func NewHostReadyAck() Message {
	return Message{Type: MsgHostReady}
}

// NewHostCommand builds an out-of-band command message.
func NewHostCommand(command string, data any) Message {
	return Message{Type: MsgHostCommand, Command: command, Data: marshalLenient(data)}
}

func marshalLenient(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

// Player is a participant identity. ID is the stable key games increment
// scores against; at most two players exist per session in this game.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// GameStateEnvelope wraps a game-state payload with a freshness token.
// Two envelopes are different versions iff their IDs differ; content
// equality is irrelevant.
type GameStateEnvelope struct {
	ID           string         `json:"id"`
	GameState    map[string]any `json:"gameState"`
	AlertUserIDs []string       `json:"alertUserIds,omitempty"`
}

// NewEnvelope wraps gameState with a freshly generated id.
func NewEnvelope(gameState map[string]any, alertUserIDs []string) *GameStateEnvelope {
	return &GameStateEnvelope{
		ID:           uuid.NewString(),
		GameState:    gameState,
		AlertUserIDs: alertUserIDs,
	}
}

// StoredState is the unit of durable persistence, owned exclusively by the
// host. CurrentPlayerID is nil when no turn indicator has been derived.
type StoredState struct {
	GameState       *GameStateEnvelope `json:"gameState"`
	Players         []Player           `json:"players"`
	CurrentPlayerID *string            `json:"currentPlayerId"`
}

// DefaultStoredState returns the state a fresh session starts from: no
// envelope, no players, no current player. Players are synthesized lazily as
// ready handshakes arrive.
func DefaultStoredState() StoredState {
	return StoredState{Players: []Player{}}
}

// GameInfo is the handshake response delivered to exactly one pending ready
// future per client.
type GameInfo struct {
	Players          []Player           `json:"players"`
	Player           Player             `json:"player"`
	ViewContext      string             `json:"viewContext"`
	InitialGameState *GameStateEnvelope `json:"initialGameState"`
}

// PlayerScore pairs a player with their final score in a multiplayer
// game-over report.
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// MuteState is the payload of toggle_mute events.
type MuteState struct {
	IsMuted bool `json:"isMuted"`
}

// BroadcastRecord is the tagged payload persisted on the broadcast
// side-channel key for browsing contexts unreachable by direct reference.
type BroadcastRecord struct {
	SenderID  string          `json:"senderId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}
