package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "tickerpulse - social/news mentions to industry and stock signals",
	Long: `tickerpulse Unified CLI

Collects recent social and news mentions, derives industry and stock
signals from them and serves posts, signals and historical accuracy
over HTTP. Every resource is cached (file, postgres or redis) and is
only recomputed on an explicit refresh.

Usage:
  go run ./cmd/pulse [command]

Examples:
  go run ./cmd/pulse api
  go run ./cmd/pulse proxy
  go run ./cmd/pulse refresh posts
  go run ./cmd/pulse cache status`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (overrides LOG_LEVEL)")
}
