// Package cli implements the brew command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tutu-network/brew/internal/daemon"
)

// Global flags.
var (
	configPath  string
	journalDir  string
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "brew",
	Short: "Coffee machine command interpreter",
	Long: `brew simulates a coffee vending machine driven by commands on standard
input: buy, fill, take, remaining and exit. Optional layers record a SQLite
audit journal and expose Prometheus metrics while the session runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMachine,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", daemon.DefaultConfigPath(), "Path to config file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal", "", "Enable the audit journal in this directory")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve metrics on this address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (daemon.Config, error) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Enabled = true
		cfg.Journal.Dir = journalDir
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = metricsAddr
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}
