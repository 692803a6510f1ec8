package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pengulab/pengu-arcade/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default game configuration YAML",
	Long: `Print the embedded default Pengu Drop configuration. Redirect it to a
file, edit it, and point 'pengu play --config' at it, or install it as
~/.pengu/configs/pengu.yaml to apply it to every session.

Examples:
  pengu config
  pengu config > ~/.pengu/configs/pengu.yaml`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.GetDefaultYAML("pengu"))
	},
}
