// Package identity derives a stable per-window, per-player identity for dev
// host handshakes. In the browser this information comes from iframe data
// attributes, window names, and URL query parameters; here those sources are
// modeled explicitly on a WindowContext so both the SDK facade and the host
// resolve hints the same way.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// windowNamePrefix is the naming convention recognized on declared window
// names, e.g. "remix-player-2".
const windowNamePrefix = "remix-player-"

// Hints is the handshake input resolved for one window context. ClientID is
// always populated; the player fields are optional explicit overrides.
type Hints struct {
	ClientID   string
	PlayerID   string
	PlayerName string
}

// WindowContext models the identity-bearing surface of one game window.
type WindowContext struct {
	// Name is the window's own declared name string.
	Name string

	// Attrs are the data-* attributes of the window's iframe element.
	// Recognized keys: "player", "player-name".
	Attrs map[string]string

	// Query holds the window's URL query parameters.
	// Recognized keys: "player", "instance", "playerName".
	Query url.Values

	// Globals are explicit in-window overrides and take precedence over
	// everything else. Recognized keys: "playerId", "playerName".
	Globals map[string]string

	once     sync.Once
	clientID string
}

// ClientID returns the synthetic per-window identifier, minted once and
// cached for the lifetime of this context. It is not persisted across
// reloads unless the same context object is reused.
func (w *WindowContext) ClientID() string {
	w.once.Do(func() {
		w.clientID = mintClientID()
	})
	return w.clientID
}

// Resolve computes the handshake hints for a window context using the
// deterministic precedence chain: explicit globals, then iframe data
// attributes, then the window-name convention, then URL query parameters.
func Resolve(w *WindowContext) Hints {
	h := Hints{ClientID: w.ClientID()}

	if id, ok := w.Globals["playerId"]; ok && id != "" {
		h.PlayerID = id
	}
	if name, ok := w.Globals["playerName"]; ok && name != "" {
		h.PlayerName = name
	}

	if h.PlayerID == "" {
		if id, ok := w.Attrs["player"]; ok && id != "" {
			h.PlayerID = id
		}
	}
	if h.PlayerName == "" {
		if name, ok := w.Attrs["player-name"]; ok && name != "" {
			h.PlayerName = name
		}
	}

	if h.PlayerID == "" {
		if id, ok := playerFromWindowName(w.Name); ok {
			h.PlayerID = id
		}
	}

	if w.Query != nil {
		if h.PlayerID == "" {
			if id := w.Query.Get("player"); id != "" {
				h.PlayerID = id
			} else if id := w.Query.Get("instance"); id != "" {
				h.PlayerID = id
			}
		}
		if h.PlayerName == "" {
			if name := w.Query.Get("playerName"); name != "" {
				h.PlayerName = name
			}
		}
	}

	return h
}

func playerFromWindowName(name string) (string, bool) {
	if !strings.HasPrefix(name, windowNamePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(name, windowNamePrefix)
	if id == "" {
		return "", false
	}
	return id, true
}

// mintClientID builds a "client-<millis>-<random>" identifier. The random
// suffix falls back to a timestamp-derived value if the system RNG fails.
func mintClientID() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		now := time.Now().UnixNano()
		for i := range suffix {
			suffix[i] = byte(now >> (8 * i))
		}
	}
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "client-" + millis + "-" + hex.EncodeToString(suffix)
}
