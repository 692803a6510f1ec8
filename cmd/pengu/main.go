// pengu is the Pengu Drop arcade game plus its local dev platform host.
//
// Usage:
//
//	pengu play               - Play in the terminal against an in-process host
//	pengu serve              - Start the WebSocket dev host for external clients
//	pengu serve-ssh          - Start an SSH server for remote terminal play
//	pengu scores             - Show high scores
//	pengu state show|reset   - Inspect or reset the persisted platform state
//	pengu config             - Print the default game configuration YAML
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.pengu/pengu.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register it
	_ "github.com/pengulab/pengu-arcade/internal/games/pengu"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pengu",
	Short: "Pengu Drop - catch fish, dodge icicles, in your terminal",
	Long: `Pengu Drop is a terminal arcade game with a built-in emulation of the
game platform it ships on: a dev host that owns durable state, assigns
players, and fans game events out to every connected window.

Available commands:
  play       - Play directly against an in-process dev host
  serve      - Start the WebSocket dev host for external game clients
  serve-ssh  - Start an SSH server for remote terminal play
  scores     - View high scores
  state      - Inspect or reset the persisted platform state
  config     - Print the default game configuration YAML

Examples:
  pengu play
  pengu play --players 2
  pengu serve --addr :8787
  pengu serve-ssh --ssh :2222
  pengu scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pengu/pengu.db", "Path to state and scores database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serveSSHCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(configCmd)
}
