package store

import "strings"

// BroadcastKey is the fixed, non-namespaced key carrying the cross-context
// broadcast side channel. Every dev host instance watches it.
const BroadcastKey = "remix_broadcast_channel"

// StateKey returns the canonical game-state key for a game.
func StateKey(gameName string) string {
	return "remix_game_state_" + SanitizeGameName(gameName)
}

// SnapshotsKey returns the saved-state snapshots list key for a game.
func SnapshotsKey(gameName string) string {
	return "remix_saved_states_" + SanitizeGameName(gameName)
}

// AssignmentsKey returns the clientId-to-playerId assignment table key for a
// game.
func AssignmentsKey(gameName string) string {
	return "remix_player_assignments_" + SanitizeGameName(gameName)
}

// SanitizeGameName strips every character outside [A-Za-z0-9-_] so that
// differently named games never collide in the shared storage namespace.
func SanitizeGameName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
