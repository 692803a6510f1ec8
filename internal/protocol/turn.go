package protocol

import (
	"fmt"
	"math"
)

// DeriveTurn extracts the whose-turn-it-is player id from a game-specific
// state payload.
//
// The documented contract is the explicit sub-schema
//
//	"turnIndicator": {"player": "<playerId>"}
//
// which games populate deliberately. When it is absent, two legacy
// field-sniffing shims are tried for compatibility with older games:
// a numeric "currentPlayer" field (1 or 2), and a chess-style "turn"
// character ("w"/"b"), both mapped to player ids "1"/"2".
func DeriveTurn(gameState map[string]any) (string, bool) {
	if gameState == nil {
		return "", false
	}

	if ind, ok := gameState["turnIndicator"].(map[string]any); ok {
		if p, ok := ind["player"].(string); ok && p != "" {
			return p, true
		}
	}

	// Compatibility shim: numeric currentPlayer.
	if n, ok := asNumber(gameState["currentPlayer"]); ok {
		return fmt.Sprintf("%d", int(n)), true
	}

	// Compatibility shim: chess-style turn char.
	if t, ok := gameState["turn"].(string); ok {
		switch t {
		case "w":
			return "1", true
		case "b":
			return "2", true
		}
	}

	return "", false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
