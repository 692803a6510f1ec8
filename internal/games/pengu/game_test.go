package pengu

import (
	"testing"

	"github.com/pengulab/pengu-arcade/internal/config"
	"github.com/pengulab/pengu-arcade/internal/core"
)

func newTestGame(players int) *Game {
	g := New(config.DefaultPenguConfig())
	g.SetPlayers(players)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	return g
}

// dropOn places an item directly above player i so the next Step catches it.
func dropOn(g *Game, i int, kind ItemKind) {
	rect := g.penguinRect(i)
	g.falls.items = append(g.falls.items, Item{
		X:    rect.X + rect.W/2,
		Y:    float64(rect.Y),
		Kind: kind,
	})
}

func stepIdle(g *Game) core.StepResult {
	return g.Step(core.NewInputFrame())
}

func TestResetInitialState(t *testing.T) {
	g := newTestGame(1)

	st := g.State()
	if st.Score != 0 || st.GameOver || st.Paused {
		t.Errorf("fresh game state = %+v", st)
	}
	if g.lives != config.DefaultPenguConfig().Gameplay.Lives {
		t.Errorf("lives = %d", g.lives)
	}
	if g.pens[0].x != 40 {
		t.Errorf("penguin should start centered, x = %d", g.pens[0].x)
	}
}

func TestMovementClampedToScreen(t *testing.T) {
	g := newTestGame(1)

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	for i := 0; i < 100; i++ {
		g.Step(left)
	}
	if g.pens[0].x != 0 {
		t.Errorf("penguin escaped left edge, x = %d", g.pens[0].x)
	}

	right := core.NewInputFrame()
	right.Set(core.ActionRight)
	for i := 0; i < 100; i++ {
		g.Step(right)
	}
	wantMax := 80 - g.cfg.Player.Width
	if g.pens[0].x != wantMax {
		t.Errorf("penguin x = %d, want clamped to %d", g.pens[0].x, wantMax)
	}
}

func TestCatchFishScores(t *testing.T) {
	g := newTestGame(1)

	dropOn(g, 0, ItemFish)
	stepIdle(g)

	if g.Score(0) != g.cfg.Gameplay.FishPoints {
		t.Errorf("score = %d, want %d", g.Score(0), g.cfg.Gameplay.FishPoints)
	}

	dropOn(g, 0, ItemGolden)
	stepIdle(g)

	want := g.cfg.Gameplay.FishPoints + g.cfg.Gameplay.GoldenPoints
	if g.Score(0) != want {
		t.Errorf("score after golden = %d, want %d", g.Score(0), want)
	}
}

func TestHazardCostsLifeAndEndsGame(t *testing.T) {
	g := newTestGame(1)
	startLives := g.lives

	dropOn(g, 0, ItemHazard)
	stepIdle(g)
	if g.lives != startLives-1 {
		t.Fatalf("lives = %d, want %d", g.lives, startLives-1)
	}
	if g.State().GameOver {
		t.Fatal("one hazard should not end the game")
	}

	for g.lives > 0 {
		dropOn(g, 0, ItemHazard)
		stepIdle(g)
	}
	if !g.State().GameOver {
		t.Error("game should be over at zero lives")
	}

	// Steps after game over are no-ops.
	tick := g.tickCount
	stepIdle(g)
	if g.tickCount != tick {
		t.Error("simulation advanced after game over")
	}
}

func TestUncaughtItemsVanishAtGround(t *testing.T) {
	g := newTestGame(1)
	startLives := g.lives

	// Far from the penguin, one tick above the ice line.
	g.falls.items = append(g.falls.items, Item{X: 2, Y: float64(g.groundY()) - 0.1, Kind: ItemFish})
	stepIdle(g)

	if n := len(g.falls.Items()); n != 0 {
		t.Fatalf("%d items survived past the ground line", n)
	}
	if g.Score(0) != 0 {
		t.Errorf("uncaught fish scored: %d", g.Score(0))
	}
	if g.lives != startLives {
		t.Errorf("uncaught fish cost a life: %d -> %d", startLives, g.lives)
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	g := newTestGame(1)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	tick := g.tickCount
	stepIdle(g)
	if g.tickCount != tick {
		t.Error("paused game advanced")
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("second pause press should resume")
	}
}

func TestTwoPlayerIndependentScores(t *testing.T) {
	g := newTestGame(2)

	dropOn(g, 1, ItemFish)
	frame := core.NewMultiInputFrame()
	g.StepMulti(frame)

	if g.Score(0) != 0 {
		t.Errorf("player 1 score = %d, want 0", g.Score(0))
	}
	if g.Score(1) != g.cfg.Gameplay.FishPoints {
		t.Errorf("player 2 score = %d, want %d", g.Score(1), g.cfg.Gameplay.FishPoints)
	}
	if g.State().Score != g.cfg.Gameplay.FishPoints {
		t.Errorf("combined score = %d", g.State().Score)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g := newTestGame(2)
	dropOn(g, 0, ItemFish)
	g.StepMulti(core.NewMultiInputFrame())
	dropOn(g, 1, ItemGolden)

	snap := g.Snapshot()

	h := newTestGame(2)
	h.Restore(snap)

	if h.Score(0) != g.Score(0) || h.Score(1) != g.Score(1) {
		t.Errorf("restored scores (%d, %d), want (%d, %d)", h.Score(0), h.Score(1), g.Score(0), g.Score(1))
	}
	if h.lives != g.lives || h.tickCount != g.tickCount {
		t.Errorf("restored lives/tick = %d/%d, want %d/%d", h.lives, h.tickCount, g.lives, g.tickCount)
	}
	if len(h.falls.Items()) != len(g.falls.Items()) {
		t.Errorf("restored %d items, want %d", len(h.falls.Items()), len(g.falls.Items()))
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	a := newTestGame(1)
	b := newTestGame(1)

	for i := 0; i < 300; i++ {
		stepIdle(a)
		stepIdle(b)
	}

	itemsA, itemsB := a.falls.Items(), b.falls.Items()
	if len(itemsA) != len(itemsB) {
		t.Fatalf("item counts diverged: %d vs %d", len(itemsA), len(itemsB))
	}
	for i := range itemsA {
		if itemsA[i] != itemsB[i] {
			t.Fatalf("item %d diverged: %+v vs %+v", i, itemsA[i], itemsB[i])
		}
	}
}

func TestRenderShowsHUDAndGround(t *testing.T) {
	g := newTestGame(1)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if screen.Get(0, g.groundY()) != GroundChar {
		t.Error("ground line missing")
	}
	row := screen.Row(0)
	if row == "" || len(row) != 80 {
		t.Fatalf("unexpected HUD row %q", row)
	}
}
