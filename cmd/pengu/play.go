package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pengulab/pengu-arcade/internal/bus"
	"github.com/pengulab/pengu-arcade/internal/config"
	"github.com/pengulab/pengu-arcade/internal/core"
	"github.com/pengulab/pengu-arcade/internal/devhost"
	"github.com/pengulab/pengu-arcade/internal/games/pengu"
	"github.com/pengulab/pengu-arcade/internal/identity"
	"github.com/pengulab/pengu-arcade/internal/platform/tui"
	"github.com/pengulab/pengu-arcade/internal/sdk"
	"github.com/pengulab/pengu-arcade/internal/store"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPlayers    int
	flagPlayerHint string
	flagPlayerName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Pengu Drop",
	Long: `Start playing against an in-process dev host. Game state is saved
through the host, so a later session resumes where the last one ended.

Controls:
  A/D or Left/Right - Move (in 2-player mode A/D is P1, arrows are P2)
  P          - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  pengu play
  pengu play --players 2
  pengu play --difficulty hard
  pengu play --player 2 --name Gentoo
  pengu play --config ./my-pengu.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagPlayers, "players", 1, "Local players (1 or 2)")
	playCmd.Flags().StringVar(&flagPlayerHint, "player", "", "Explicit player id to request from the host")
	playCmd.Flags().StringVar(&flagPlayerName, "name", "", "Player display name")
}

func runPlay(cmd *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pengu"})

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	penguCfg, err := config.LoadPengu(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		config.ApplyPenguPreset(&penguCfg, config.DifficultyPreset(flagDifficulty))
	}

	st, err := store.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		st = store.NewMemory()
	}

	multiplayer := flagPlayers == 2

	host := devhost.Acquire("play", func() *devhost.Host {
		return devhost.New(devhost.Options{
			GameName:    "pengu",
			Multiplayer: multiplayer,
			Store:       st,
			Logger:      logger,
		})
	})
	defer devhost.Release("play")

	wctx := &identity.WindowContext{Globals: map[string]string{}}
	if flagPlayerHint != "" {
		wctx.Globals["playerId"] = flagPlayerHint
	}
	if flagPlayerName != "" {
		wctx.Globals["playerName"] = flagPlayerName
	}

	clientEnd, hostEnd := bus.Pipe()
	host.RegisterClient(hostEnd, wctx.ClientID())
	facade := sdk.New(clientEnd, wctx, multiplayer, logger)

	game := pengu.New(penguCfg)
	game.SetPlayers(flagPlayers)

	runErr := tui.Run(game, facade, st, cfg)

	st.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
