package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is reported by --version and in exported HAR files
var version = "1.0.0"

var (
	verbose    bool
	configPath string
	backend    string
)

var rootCmd = &cobra.Command{
	Use:   "apitester",
	Short: "Compose, send and organize HTTP requests",
	Long: `apitester is a command-line API tester.

Send HTTP requests, inspect responses, keep a history, organize requests
into collections, work in tabs and generate cURL or fetch snippets.

Examples:
  apitester get https://api.example.com/users
  apitester post https://api.example.com/users -d '{"name": "Ada"}'
  apitester snippet curl https://api.example.com/users --bearer TOKEN
  apitester history
  apitester collection list`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show response headers and debug logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $APITESTER_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: sqlite, json or memory")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

// setupLogger configures the global slog logger based on the verbose flag
func setupLogger() {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}
