package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pengulab/pengu-arcade/internal/devhost"
	"github.com/pengulab/pengu-arcade/internal/protocol"
	"github.com/pengulab/pengu-arcade/internal/registry"
	"github.com/pengulab/pengu-arcade/internal/store"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the persisted platform state",
	Long: `Work with the dev host's durable state: the current game-state envelope,
the player roster, client-to-player assignments, and saved snapshots.

Examples:
  pengu state show
  pengu state reset`,
}

var stateShowCmd = &cobra.Command{
	Use:   "show [game]",
	Short: "Print the stored game state and roster",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStateShow,
}

var stateResetCmd = &cobra.Command{
	Use:   "reset [game]",
	Short: "Reset state, assignments, and snapshots to a fresh session",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStateReset,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
}

// stateGameArg resolves the optional game argument against the registry so a
// typo cannot silently address an empty key namespace.
func stateGameArg(args []string) string {
	gameID := "pengu"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Unknown game %q\n", gameID)
		os.Exit(1)
	}
	return gameID
}

func runStateShow(_ *cobra.Command, args []string) {
	gameID := stateGameArg(args)

	st, err := store.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	state := protocol.DefaultStoredState()
	if !st.GetJSON(store.StateKey(gameID), &state) {
		fmt.Println("No stored state; next session starts fresh.")
		return
	}

	pretty, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering state: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(pretty))

	var assignments map[string]string
	if st.GetJSON(store.AssignmentsKey(gameID), &assignments) && len(assignments) > 0 {
		fmt.Println()
		fmt.Println("Player assignments:")
		for clientID, playerID := range assignments {
			fmt.Printf("  %s -> player %s\n", clientID, playerID)
		}
	}

	var snapshots []*protocol.GameStateEnvelope
	if st.GetJSON(store.SnapshotsKey(gameID), &snapshots) {
		fmt.Println()
		fmt.Printf("Saved snapshots: %d\n", len(snapshots))
	}
}

func runStateReset(_ *cobra.Command, args []string) {
	gameID := stateGameArg(args)

	st, err := store.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	host := devhost.New(devhost.Options{
		GameName: gameID,
		Store:    st,
		Logger:   log.New(os.Stderr),
	})
	host.ResetState()

	fmt.Println("State reset. Next session starts fresh.")
}
