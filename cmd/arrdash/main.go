// Arrdash is a terminal dashboard for Huntarr-style media automation
// backends.
//
// It renders the backend's sections (hunt activity, requests, logs,
// settings) as a full-screen TUI, tracks unsaved edits before leaving a
// section, and talks to the backend over its HTTP and websocket APIs.
//
// Usage:
//
//	arrdash [command] [flags]
//
// Running without arguments launches the dashboard.
// See 'arrdash --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fletchd/arrdash/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arrdash",
	Short: "Terminal dashboard for media automation backends",
	Long: `A terminal dashboard for Huntarr-style media automation backends.

Shows hunt activity, media requests, live logs, and settings as
navigable sections, with unsaved-changes protection when leaving an
editor.

If no command is specified, the dashboard launches.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arrdash %s (commit: %s)\n", version.Version, version.Commit)
	},
}
