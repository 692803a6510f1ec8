package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pengulab/pengu-arcade/internal/platform/tui"
	"github.com/pengulab/pengu-arcade/internal/registry"
	"github.com/pengulab/pengu-arcade/internal/store"
)

var flagScoresBoard bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 high scores for every registered game.

Examples:
  pengu scores
  pengu scores --board   # Interactive scrollable scoreboard`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresBoard, "board", false, "Open the interactive scoreboard")
}

func runScores(cmd *cobra.Command, args []string) {
	st, err := store.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games registered.")
		return
	}

	if flagScoresBoard {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		gi := games[0]
		if _, boardErr := tui.RunScoreboard(st, gi.ID, gi.Title, width, height); boardErr != nil {
			fmt.Fprintf(os.Stderr, "Error showing scoreboard: %v\n", boardErr)
			os.Exit(1)
		}
		return
	}

	for _, gi := range games {
		printScores(st, gi)
	}
}

func printScores(st *store.Store, gi registry.GameInfo) {
	scores, err := st.TopScores(gi.ID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", gi.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'pengu play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	fmt.Println()
	if high, err := st.HighScore(gi.ID); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
}
