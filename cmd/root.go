package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/speaktest/internal/config"
	"github.com/abhisek/speaktest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "speaktest",
	Short: "Manage IELTS speaking-test questions",
	Long:  "Speaktest is a terminal client for listing, creating and deleting speaking-test records on a speaking-test backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides SPEAKTEST_CONFIG env var)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL, e.g. http://localhost:5000 (overrides SPEAKTEST_API_URL)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides SPEAKTEST_DB env var)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration from file and environment, applies
// flag overrides (highest priority) and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to
// SPEAKTEST_DB and then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
