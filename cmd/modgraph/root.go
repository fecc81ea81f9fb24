package main

import (
	"modgraph/internal/version"

	"github.com/spf13/cobra"
)

var (
	// repoFlag is the CLI --repo flag value
	repoFlag string
	// formatFlag is the CLI --format flag value
	formatFlag string
	// logLevelFlag overrides logging.level from the config file
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "modgraph",
	Short: "modgraph - module roots and dependency graph analysis",
	Long: `modgraph answers structural questions about directed graphs and about the
module dependency graph of a repository: shortest and k-shortest paths, cycles,
strongly connected components, reachability, and which module root owns a file.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("modgraph version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Repository root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", string(FormatJSON),
		"Output format (json, human)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: from config)")
}
