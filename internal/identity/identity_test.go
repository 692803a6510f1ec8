package identity

import (
	"net/url"
	"strings"
	"testing"
)

func TestClientIDStablePerContext(t *testing.T) {
	w := &WindowContext{}

	first := w.ClientID()
	second := w.ClientID()

	if first == "" {
		t.Fatal("ClientID must not be empty")
	}
	if first != second {
		t.Errorf("ClientID changed between calls: %q then %q", first, second)
	}
	if !strings.HasPrefix(first, "client-") {
		t.Errorf("ClientID %q missing client- prefix", first)
	}
}

func TestClientIDDistinctAcrossContexts(t *testing.T) {
	a := (&WindowContext{}).ClientID()
	b := (&WindowContext{}).ClientID()
	if a == b {
		t.Errorf("two contexts minted the same client id %q", a)
	}
}

func TestResolvePrecedence(t *testing.T) {
	query := url.Values{}
	query.Set("player", "4")
	query.Set("playerName", "Query Name")

	w := &WindowContext{
		Name:    "remix-player-3",
		Attrs:   map[string]string{"player": "2", "player-name": "Attr Name"},
		Query:   query,
		Globals: map[string]string{"playerId": "1", "playerName": "Global Name"},
	}

	h := Resolve(w)
	if h.PlayerID != "1" || h.PlayerName != "Global Name" {
		t.Errorf("globals should win: %+v", h)
	}

	w.Globals = nil
	h = Resolve(w)
	if h.PlayerID != "2" || h.PlayerName != "Attr Name" {
		t.Errorf("attrs should win over name/query: %+v", h)
	}

	w.Attrs = nil
	h = Resolve(w)
	if h.PlayerID != "3" {
		t.Errorf("window name convention should win over query: %+v", h)
	}
	if h.PlayerName != "Query Name" {
		t.Errorf("name has no player-name source, query should supply it: %+v", h)
	}

	w.Name = "unrelated"
	h = Resolve(w)
	if h.PlayerID != "4" {
		t.Errorf("query player should be the last resort: %+v", h)
	}
}

func TestResolveInstanceParamFallback(t *testing.T) {
	query := url.Values{}
	query.Set("instance", "2")

	h := Resolve(&WindowContext{Query: query})
	if h.PlayerID != "2" {
		t.Errorf("instance param not honored: %+v", h)
	}
}

func TestResolveNoHints(t *testing.T) {
	h := Resolve(&WindowContext{Name: "plain-window"})
	if h.PlayerID != "" || h.PlayerName != "" {
		t.Errorf("expected empty player hints, got %+v", h)
	}
	if h.ClientID == "" {
		t.Error("ClientID must always be resolved")
	}
}
