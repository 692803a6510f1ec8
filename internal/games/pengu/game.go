// Package pengu implements Pengu Drop: a penguin slides along the ice and
// catches falling fish while dodging falling hazards. Supports one or two
// local players.
package pengu

import (
	"fmt"

	"github.com/pengulab/pengu-arcade/internal/config"
	"github.com/pengulab/pengu-arcade/internal/core"
	"github.com/pengulab/pengu-arcade/internal/registry"
)

// Visual characters for rendering
const (
	BodyChar   = '█'
	HeadChar   = '●'
	FishChar   = '»'
	GoldenChar = '★'
	HazardChar = '▼'
	GroundChar = '═'
)

type penguin struct {
	x     int
	score int
}

// Game implements the Pengu Drop game logic.
type Game struct {
	cfg     config.PenguConfig
	diff    *config.DifficultyManager
	runtime core.RuntimeConfig

	falls      *FallManager
	pens       [2]penguin
	numPlayers int
	lives      int
	tickCount  int
	gameOver   bool
	paused     bool
}

// New creates a new Pengu Drop game instance.
func New(cfg config.PenguConfig) *Game {
	return &Game{
		cfg:        cfg,
		diff:       config.NewDifficultyManager(cfg.Difficulty),
		numPlayers: 1,
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "pengu"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Pengu Drop"
}

// SetPlayers selects one or two local players. Takes effect on Reset.
func (g *Game) SetPlayers(n int) {
	g.numPlayers = core.Clamp(n, 1, 2)
}

// Players returns the configured player count.
func (g *Game) Players() int {
	return g.numPlayers
}

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.tickCount = 0
	g.gameOver = false
	g.paused = false
	g.lives = g.cfg.Gameplay.Lives

	if g.numPlayers == 2 {
		g.pens[0] = penguin{x: cfg.ScreenW / 3}
		g.pens[1] = penguin{x: 2 * cfg.ScreenW / 3}
	} else {
		g.pens[0] = penguin{x: cfg.ScreenW / 2}
		g.pens[1] = penguin{}
	}

	if g.falls == nil {
		g.falls = NewFallManager(cfg.Seed, cfg.ScreenW, cfg.ScreenH, &g.cfg, g.diff)
	} else {
		g.falls.UpdateScreenSize(cfg.ScreenW, cfg.ScreenH)
		g.falls.Reset(cfg.Seed)
	}
}

// Step advances the game by one tick with single-player input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	frame := core.NewMultiInputFrame()
	frame.SetPlayer(core.Player1, in)
	return g.StepMulti(frame)
}

// StepMulti advances the game by one tick with input for every local player.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Player(core.Player1).Has(core.ActionPause) || in.Player(core.Player2).Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++

	g.movePenguin(0, in.Player(core.Player1))
	if g.numPlayers == 2 {
		g.movePenguin(1, in.Player(core.Player2))
	}

	g.falls.Update(g.groundY(), g.totalScore(), g.tickCount)

	for i := 0; i < g.numPlayers; i++ {
		fish, golden, hazards := g.falls.Catch(g.penguinRect(i))
		g.pens[i].score += fish*g.cfg.Gameplay.FishPoints + golden*g.cfg.Gameplay.GoldenPoints
		g.lives -= hazards
	}

	if g.lives <= 0 {
		g.lives = 0
		g.gameOver = true
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) movePenguin(i int, in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		g.pens[i].x -= g.cfg.Physics.MoveSpeed
	}
	if in.Has(core.ActionRight) {
		g.pens[i].x += g.cfg.Physics.MoveSpeed
	}
	g.pens[i].x = core.Clamp(g.pens[i].x, 0, g.runtime.ScreenW-g.cfg.Player.Width)
}

// groundY returns the row the ice line occupies.
func (g *Game) groundY() int {
	return g.runtime.ScreenH - 1 - g.cfg.Player.GroundOffset
}

// penguinRect returns the collision rectangle for player i, extended one row
// above the body so fish land in the beak rather than on it.
func (g *Game) penguinRect(i int) core.Rect {
	top := g.groundY() - g.cfg.Player.Height - 1
	return core.NewRect(g.pens[i].x, top, g.cfg.Player.Width, g.cfg.Player.Height+1)
}

// Score returns player i's score (0-indexed).
func (g *Game) Score(i int) int {
	if i < 0 || i > 1 {
		return 0
	}
	return g.pens[i].score
}

func (g *Game) totalScore() int {
	return g.pens[0].score + g.pens[1].score
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	groundY := g.groundY()
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar)

	for _, it := range g.falls.Items() {
		switch it.Kind {
		case ItemFish:
			dst.SetColored(it.X, int(it.Y), FishChar, core.ColorBrightCyan)
		case ItemGolden:
			dst.SetColored(it.X, int(it.Y), GoldenChar, core.ColorBrightYellow)
		case ItemHazard:
			dst.SetColored(it.X, int(it.Y), HazardChar, core.ColorBrightRed)
		}
	}

	g.drawPenguin(dst, 0, core.ColorBrightWhite)
	if g.numPlayers == 2 {
		g.drawPenguin(dst, 1, core.ColorOrange)
	}

	hud := fmt.Sprintf(" Score: %d  Lives: %d ", g.pens[0].score, g.lives)
	if g.numPlayers == 2 {
		hud = fmt.Sprintf(" P1: %d  P2: %d  Lives: %d ", g.pens[0].score, g.pens[1].score, g.lives)
	}
	if g.diff.IsEnabled() {
		hud += fmt.Sprintf(" Lvl: %d%% ", int(g.diff.Level(g.totalScore(), g.tickCount)*100))
	}
	dst.DrawText(2, 0, hud)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.totalScore()))
	}
}

func (g *Game) drawPenguin(dst *core.Screen, i int, color core.Color) {
	top := g.groundY() - g.cfg.Player.Height
	for dy := 0; dy < g.cfg.Player.Height; dy++ {
		for dx := 0; dx < g.cfg.Player.Width; dx++ {
			ch := BodyChar
			if dy == 0 && dx == g.cfg.Player.Width/2 {
				ch = HeadChar
			}
			dst.SetColored(g.pens[i].x+dx, top+dy, ch, color)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.totalScore(),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func init() {
	registry.Register("pengu", func() registry.Game {
		cfg, err := config.LoadPengu("")
		if err != nil {
			cfg = config.DefaultPenguConfig()
		}
		return New(cfg)
	})
}
