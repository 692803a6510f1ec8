package registry

import (
	"testing"

	"github.com/pengulab/pengu-arcade/internal/core"
)

type stubGame struct {
	id    string
	title string
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return g.title }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub", func() Game { return &stubGame{id: "stub", title: "Stub Game"} })

	if !Exists("stub") {
		t.Fatal("registered game should exist")
	}

	g, err := Create("stub")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "stub" || g.Title() != "Stub Game" {
		t.Errorf("created game = %q/%q", g.ID(), g.Title())
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-game"); err == nil {
		t.Error("expected error for unknown game")
	}
	if Exists("no-such-game") {
		t.Error("unknown game should not exist")
	}
}

func TestListSorted(t *testing.T) {
	Register("zz-last", func() Game { return &stubGame{id: "zz-last", title: "Last"} })
	Register("aa-first", func() Game { return &stubGame{id: "aa-first", title: "First"} })

	games := List()
	if len(games) < 2 {
		t.Fatalf("expected at least 2 games, got %d", len(games))
	}
	for i := 1; i < len(games); i++ {
		if games[i-1].ID > games[i].ID {
			t.Fatalf("list not sorted: %q before %q", games[i-1].ID, games[i].ID)
		}
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("dup", func() Game { return &stubGame{id: "dup", title: "Dup"} })
	Register("dup", func() Game { return &stubGame{id: "dup", title: "Dup"} })
}
