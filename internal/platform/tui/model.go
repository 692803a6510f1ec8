package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pengulab/pengu-arcade/internal/core"
	"github.com/pengulab/pengu-arcade/internal/games/pengu"
	"github.com/pengulab/pengu-arcade/internal/protocol"
	"github.com/pengulab/pengu-arcade/internal/sdk"
	"github.com/pengulab/pengu-arcade/internal/store"
)

// saveEveryTicks is how often a running game ships its state to the host.
const saveEveryTicks = 60

// readyTimeout bounds the handshake wait; an unreachable host degrades the
// session to offline play instead of blocking the UI.
const readyTimeout = 10 * time.Second

// hostEventMsg carries a host-to-client event into the Bubble Tea loop.
type hostEventMsg struct {
	eventType string
	data      json.RawMessage
}

// readyMsg is the outcome of the ready handshake.
type readyMsg struct {
	info protocol.GameInfo
	err  error
}

// Model is the Bubble Tea model for running Pengu Drop against a dev host.
type Model struct {
	game   *pengu.Game
	screen *core.Screen
	store  *store.Store
	facade *sdk.Facade
	keys   *KeyMapper
	config core.RuntimeConfig

	inputFrame core.MultiInputFrame
	gameState  core.GameState

	// events funnels facade subscription callbacks into Update.
	events chan hostEventMsg

	info       *protocol.GameInfo
	muted      bool
	quitting   bool
	scoreSaved bool
	sinceSave  int
}

// NewModel creates a new Bubble Tea model for the given game. The facade is
// optional: without one the session plays offline and skips platform traffic.
func NewModel(game *pengu.Game, facade *sdk.Facade, st *store.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      st,
		facade:     facade,
		keys:       NewKeyMapper(game.Players() == 2),
		config:     cfg,
		inputFrame: core.NewMultiInputFrame(),
		events:     make(chan hostEventMsg, 32),
	}

	if facade != nil {
		m.subscribe(protocol.EventPlayAgain)
		m.subscribe(protocol.EventToggleMute)
		m.subscribe(protocol.EventGameStateUpdated)
		m.subscribe(protocol.EventMultiplayerOver)
	}

	return m
}

// subscribe routes one host event type into the events channel. A full
// channel drops the event; every event type handled here is safe to coalesce.
func (m *Model) subscribe(eventType string) {
	events := m.events
	//nolint:errcheck // Only game_info is reserved, and it is never passed here
	m.facade.On(eventType, func(data json.RawMessage) {
		select {
		case events <- hostEventMsg{eventType: eventType, data: data}:
		default:
		}
	})
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if m.facade != nil {
		cmds = append(cmds, awaitReadyCmd(m.facade), waitEventCmd(m.events))
	}
	return tea.Batch(cmds...)
}

// awaitReadyCmd blocks on the handshake future off the UI loop.
func awaitReadyCmd(facade *sdk.Facade) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		defer cancel()
		info, err := facade.Ready().Await(ctx)
		return readyMsg{info: info, err: err}
	}
}

// waitEventCmd delivers the next buffered host event.
func waitEventCmd(events chan hostEventMsg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case readyMsg:
		return m.handleReady(msg)

	case hostEventMsg:
		return m.handleHostEvent(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	player, action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionRestart && !m.gameState.GameOver {
		return m, nil
	}
	if action != core.ActionNone {
		f := m.inputFrame.Player(player)
		f.Set(action)
		m.inputFrame.SetPlayer(player, f)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Reinitialize game with new dimensions if needed
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleReady records the handshake result.
func (m Model) handleReady(msg readyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Host unreachable; keep playing offline.
		return m, nil
	}

	info := msg.info
	m.info = &info
	if info.InitialGameState != nil && info.InitialGameState.GameState != nil {
		m.game.Restore(info.InitialGameState.GameState)
		m.gameState = m.game.State()
	}
	return m, nil
}

// handleHostEvent applies one host-to-client event and re-arms the wait.
func (m Model) handleHostEvent(msg hostEventMsg) (tea.Model, tea.Cmd) {
	switch msg.eventType {
	case protocol.EventPlayAgain:
		m = m.restart()

	case protocol.EventToggleMute:
		var mute protocol.MuteState
		if err := json.Unmarshal(msg.data, &mute); err == nil {
			m.muted = mute.IsMuted
		}

	case protocol.EventGameStateUpdated:
		// Another window saved state. Only mirror it when this session is
		// not actively simulating, otherwise the echo of our own saves
		// would rewind us.
		if m.gameState.GameOver {
			var env protocol.GameStateEnvelope
			if err := json.Unmarshal(msg.data, &env); err == nil && env.GameState != nil {
				m.game.Restore(env.GameState)
				m.gameState = m.game.State()
			}
		}

	case protocol.EventMultiplayerOver:
		m.gameState = m.game.State()
	}

	return m, waitEventCmd(m.events)
}

// restart begins a fresh round with a new seed.
func (m Model) restart() Model {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.sinceSave = 0
	m.inputFrame.Clear()
	return m
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Player(core.Player1).Has(core.ActionRestart) && m.gameState.GameOver {
		m = m.restart()
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.gameState.GameOver

	result := m.game.StepMulti(m.inputFrame)
	m.gameState = result.State

	if m.facade != nil && !m.gameState.GameOver && !m.gameState.Paused {
		m.sinceSave++
		if m.sinceSave >= saveEveryTicks {
			m.sinceSave = 0
			m.facade.SaveGameState(m.game.Snapshot())
		}
	}

	// Save score on game over (once)
	if m.gameState.GameOver && !wasOver && !m.scoreSaved {
		if m.store != nil && m.gameState.Score > 0 {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveScore(m.game.ID(), m.gameState.Score)
		}
		m.reportGameOver()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// reportGameOver ships final scores to the host in the form matching the
// session mode.
func (m *Model) reportGameOver() {
	if m.facade == nil {
		return
	}
	m.facade.SaveGameState(m.game.Snapshot())
	if m.game.Players() == 2 {
		m.facade.MultiplayerGameOver([]protocol.PlayerScore{
			{PlayerID: "1", Score: m.game.Score(0)},
			{PlayerID: "2", Score: m.game.Score(1)},
		})
		return
	}
	m.facade.GameOver(m.gameState.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".pengu", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	out := RenderScreen(m.screen)

	var footer []string
	if m.info != nil {
		label := m.info.Player.Name
		if label == "" {
			label = "Player " + m.info.Player.ID
		}
		footer = append(footer, "Playing as "+label)
	}
	if m.muted {
		footer = append(footer, "[muted]")
	}
	if len(footer) > 0 {
		out += "\n" + strings.Join(footer, "  ")
	}
	return out
}

// Run starts the Bubble Tea program with the given model.
func Run(game *pengu.Game, facade *sdk.Facade, st *store.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, facade, st, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
