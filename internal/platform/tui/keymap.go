package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pengulab/pengu-arcade/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	// TwoPlayer splits the bindings: A/D drive player 1 and the arrow keys
	// drive player 2. In single-player mode both sets drive player 1.
	TwoPlayer bool
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper(twoPlayer bool) *KeyMapper {
	return &KeyMapper{TwoPlayer: twoPlayer}
}

// MapKey translates a key message to an action and its target player.
// Returns ActionNone when the key is unbound; isQuit reports a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit, true
	}

	switch key {
	case "a":
		return core.Player1, core.ActionLeft, false
	case "d":
		return core.Player1, core.ActionRight, false
	case "left":
		if km.TwoPlayer {
			return core.Player2, core.ActionLeft, false
		}
		return core.Player1, core.ActionLeft, false
	case "right":
		if km.TwoPlayer {
			return core.Player2, core.ActionRight, false
		}
		return core.Player1, core.ActionRight, false
	case "enter":
		return core.Player1, core.ActionConfirm, false
	case "b", "esc":
		return core.Player1, core.ActionBack, false
	case "p":
		return core.Player1, core.ActionPause, false
	case "r":
		return core.Player1, core.ActionRestart, false
	}

	return core.Player1, core.ActionNone, false
}

// MapKeyToFrame updates a multi-input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		f := frame.Player(player)
		f.Set(action)
		frame.SetPlayer(player, f)
	}
	return isQuit
}
