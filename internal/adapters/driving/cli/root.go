// Package cli implements the dbfeed command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbfeed-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dbfeed",
	Short: "Stream database rows into an indexable document feed",
	Long: `dbfeed traverses a relational database and converts each row into an
immutable document for incremental indexing. Between passes it keeps
per-document snapshots, so only added, changed and deleted rows are
fed downstream.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config file (default ~/.dbfeed/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
