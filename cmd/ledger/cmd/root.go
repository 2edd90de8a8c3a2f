// Package cmd provides CLI commands for ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/config"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
	"github.com/shunichi-ikebuchi/bookkeeping/pkg/pathutil"
)

var (
	envFile    string
	configFile string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Double-entry bookkeeping engine",
	Long: `ledger replays bookkeeping journals (accounts, fiscal-year books and
Soll/Haben postings) against an in-memory engine and exports the result.

It supports:
- Buchung, Sammelbuchung, Splitsammelbuchung and Rückbuchung postings
- Currency conversion into the configured default currency
- Year-end closing of books
- Archiving exported snapshots in SQLite

Example:
  ledger run journals/2025.yaml
  ledger accounts bank
  ledger stats`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "bookkeeping config file (overrides LEDGER_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadSettings loads process settings and applies the --config flag.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		settings.ConfigFile = configFile
	}
	if debug {
		settings.Debug = true
	}
	return settings, nil
}

// newEngine builds an engine from the resolved bookkeeping configuration.
func newEngine(settings *config.Settings) (*ledger.Engine, error) {
	cfg, err := settings.Ledger()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bookkeeping config: %w", err)
	}
	return ledger.NewEngine(cfg, ledger.WithLogger(slog.Default()))
}

// newPathResolver builds the path resolver from settings.
func newPathResolver(settings *config.Settings) *pathutil.PathResolver {
	return pathutil.New(pathutil.Config{
		Root:         settings.Root,
		DatabasePath: settings.DBPath,
	})
}

// exitOnError reports err and exits.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
