package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pengulab/pengu-arcade/internal/platform/tui"
)

var (
	flagSSHAddr        string
	flagHostKey        string
	flagIdleTimeout    int
	flagSSHMultiplayer bool
)

var serveSSHCmd = &cobra.Command{
	Use:   "serve-ssh",
	Short: "Start the SSH server for remote play",
	Long: `Start an SSH server that lets users connect and play over the network.

Every session talks to the same dev host, so with --multiplayer two
connections share one two-player game. Scores are stored per-server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pengu/host_key

Examples:
  pengu serve-ssh                           # Listen on :23234
  pengu serve-ssh --ssh :2222               # Listen on port 2222
  pengu serve-ssh --multiplayer             # Shared two-player session
  pengu serve-ssh --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServeSSH,
}

func init() {
	serveSSHCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveSSHCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveSSHCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveSSHCmd.Flags().BoolVar(&flagSSHMultiplayer, "multiplayer", false, "Share one two-player session across connections")
}

func runServeSSH(_ *cobra.Command, _ []string) {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		Multiplayer: flagSSHMultiplayer,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Pengu Drop SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
