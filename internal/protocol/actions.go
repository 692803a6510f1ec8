package protocol

// Client-to-host action names. These must match the production platform
// exactly; the host forwards anything it does not recognize to the
// observability hook untouched.
const (
	ActionReady                   = "ready"
	ActionSaveGameState           = "save_game_state"
	ActionMultiplayerSaveState    = "multiplayer_save_game_state"
	ActionRefuteGameState         = "refute_game_state"
	ActionMultiplayerGameOver     = "multiplayer_game_over"
	ActionGameOver                = "game_over"
	ActionHapticFeedback          = "haptic_feedback"
	ActionError                   = "error"
)

// Host-to-client event names.
const (
	EventGameInfo         = "game_info"
	EventGameStateUpdated = "game_state_updated"
	EventPlayAgain        = "play_again"
	EventToggleMute       = "toggle_mute"
	EventMultiplayerOver  = "multiplayer_game_over"
)

// ReadyHints is the payload of a ready action: handshake input only, never
// persisted as an entity.
type ReadyHints struct {
	ClientID   string `json:"clientId"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
}

// SaveRequest is the payload of save_game_state and
// multiplayer_save_game_state actions.
type SaveRequest struct {
	GameState    map[string]any `json:"gameState"`
	AlertUserIDs []string       `json:"alertUserIds,omitempty"`
}

// RefuteRequest disputes a previously broadcast envelope by id.
type RefuteRequest struct {
	GameStateID string `json:"gameStateId"`
}

// MultiplayerGameOverRequest carries final per-player scores.
type MultiplayerGameOverRequest struct {
	Scores []PlayerScore `json:"scores"`
}

// GameOverRequest carries the single-player final score.
type GameOverRequest struct {
	Score int `json:"score"`
}
