package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fletchd/arrdash/internal/api"
	"github.com/fletchd/arrdash/internal/config"
	"github.com/fletchd/arrdash/internal/discovery"
	"github.com/fletchd/arrdash/internal/logging"
	"github.com/fletchd/arrdash/internal/statestore"
	"github.com/fletchd/arrdash/internal/ui"
)

var (
	serverURL   string
	startAt     string
	scanTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend URL (skips discovery and config)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(testConnectionCmd)
	rootCmd.AddCommand(resetStateCmd)
	rootCmd.AddCommand(testNotificationCmd)
}

// dashboardCmd launches the full-screen dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the dashboard",
	Long: `Launch the full-screen terminal dashboard.

Sections are reachable from the sidebar with the number keys. Editors
with unsaved changes ask before you leave them.`,
	Example: `  # Open at the default section
  arrdash dashboard
  # Or simply (dashboard is default):
  arrdash

  # Open directly at the requests section
  arrdash dashboard --section requests`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&startAt, "section", "", "Section to open first")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	statePath, err := config.StatePath()
	if err != nil {
		return fmt.Errorf("resolving state path: %w", err)
	}
	store := statestore.Open(statePath)

	// Log to a file so zap output does not fight the TUI for the
	// terminal.
	if err := logging.InitializeFile(filepath.Join(filepath.Dir(cfgPath), "arrdash.log")); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	client := api.NewClient(cfg.ServerURL)

	// Some section transitions need a full UI restart. The target is
	// persisted before the loop exits, so the next start resumes there.
	deepLink := startAt
	for {
		_, reload, err := ui.Run(cfg, cfgPath, client, store, logging.GetLogger(), deepLink)
		if err != nil {
			return err
		}
		if !reload {
			return nil
		}
		deepLink = ""
	}
}

// loadConfig resolves the backend URL from the --server flag, the config
// file, or mDNS discovery, in that order.
func loadConfig() (*config.Config, string, error) {
	cfgPath, err := config.Path()
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
		return cfg, cfgPath, nil
	}
	if cfg.ServerURL != "" {
		return cfg, cfgPath, nil
	}

	fmt.Println("No backend configured, attempting auto-discovery...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server, err := discovery.NewScanner().First(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("no backend found. Use --server to specify the URL manually")
	}
	fmt.Printf("Found backend: %s (%s)\n\n", server.Name, server.URL())

	cfg.ServerURL = server.URL()
	if err := cfg.SaveTo(cfgPath); err != nil {
		return nil, "", fmt.Errorf("saving config: %w", err)
	}
	return cfg, cfgPath, nil
}

// scanCmd discovers backends on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for backends on the network",
	Long: `Scan for dashboard backends using mDNS/DNS-SD discovery.

Lists every backend that announces itself on the local network with its
name, address, and URL.`,
	Example: `  # Scan for 5 seconds (default)
  arrdash scan

  # Longer scan for slow networks
  arrdash scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for backends (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	servers, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No backends found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the backend is running on this network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server to specify the URL manually")
		return nil
	}

	fmt.Printf("Found %d backend(s):\n\n", len(servers))
	for i, server := range servers {
		fmt.Printf("%d. %s\n", i+1, server.Name)
		fmt.Printf("   URL: %s\n\n", server.URL())
	}
	fmt.Println("Use 'arrdash --server <url>' to connect to a specific backend")
	return nil
}

// testConnectionCmd runs a backend connection test for one app
var testConnectionCmd = &cobra.Command{
	Use:   "test-connection <app>",
	Short: "Test the backend's connection to an app",
	Long: `Ask the backend to test its connection to one of its configured apps.

Supported apps: sonarr, radarr, lidarr, readarr, whisparr, eros.`,
	Example: `  arrdash test-connection radarr
  arrdash test-connection sonarr --server http://huntarr.local:9705`,
	Args: cobra.ExactArgs(1),
	RunE: runTestConnection,
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.ServerURL)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := client.TestConnection(ctx, args[0], "", "")
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("connection test failed: %s", result.Message)
	}

	fmt.Printf("✓ %s connection OK", args[0])
	if result.Version != "" {
		fmt.Printf(" (version %s)", result.Version)
	}
	fmt.Println()
	return nil
}

// resetStateCmd clears the backend's processed-media state for an app
var resetStateCmd = &cobra.Command{
	Use:   "reset-state <app> [instance]",
	Short: "Reset processed-media state for an app",
	Long: `Clear the backend's record of already-processed media for an app
instance, so the next hunt cycle considers everything again.`,
	Example: `  arrdash reset-state sonarr
  arrdash reset-state radarr 4k`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResetState,
}

func runResetState(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.ServerURL)

	instance := ""
	if len(args) > 1 {
		instance = args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := client.ResetStateful(ctx, args[0], instance); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Printf("✓ Processed-media state reset for %s\n", args[0])
	return nil
}

// testNotificationCmd triggers the backend's notification test
var testNotificationCmd = &cobra.Command{
	Use:   "test-notification",
	Short: "Send a test notification through the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.NewClient(cfg.ServerURL)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := client.TestNotification(ctx); err != nil {
			return fmt.Errorf("notification test failed: %w", err)
		}
		fmt.Println("✓ Test notification sent")
		return nil
	},
}
