package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modgraph/internal/config"
	"modgraph/internal/errors"
	"modgraph/internal/graph"
	"modgraph/internal/graphfile"
	"modgraph/internal/logging"
	"modgraph/internal/paths"
)

// getRepoRoot returns the repository root directory.
func getRepoRoot() (string, error) {
	if repoFlag != "" {
		return filepath.Abs(repoFlag)
	}
	return os.Getwd()
}

// mustGetRepoRoot returns the repository root or exits on error.
func mustGetRepoRoot() string {
	repoRoot, err := getRepoRoot()
	if err != nil {
		exitWithError(err)
	}
	return repoRoot
}

// loadConfig reads and validates .modgraph/config.json with MODGRAPH_*
// overrides applied.
func loadConfig(repoRoot string) (*config.Config, error) {
	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mustLoadConfig returns the validated configuration or exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		exitWithError(err)
	}
	return cfg
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a stderr logger from the logging section of cfg.
func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logFormat := logging.HumanFormat
	if cfg.Logging.Format == string(logging.JSONFormat) {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.ParseLevel(level),
		Output: os.Stderr,
	})
}

// caseSensitive resolves paths.caseSensitivity, probing the file system
// under repoRoot for "auto".
func caseSensitive(cfg *config.Config, repoRoot string) bool {
	switch cfg.Paths.CaseSensitivity {
	case config.CaseSensitive:
		return true
	case config.CaseInsensitive:
		return false
	default:
		return paths.DetectCaseSensitive(repoRoot)
	}
}

// analysisTimeout converts a millisecond flag value, falling back to the
// configured analysis.timeoutMs. Zero or less disables the timeout.
func analysisTimeout(flagMs int, cfg *config.Config) time.Duration {
	ms := flagMs
	if ms == 0 {
		ms = cfg.Analysis.TimeoutMs
	}
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// loadGraph reads a graph file, checks that its edges are consistent, and
// flips it when reverse is set.
func loadGraph(path string, reverse bool) (graph.DirectedGraph[string], error) {
	if path == "" {
		return nil, errors.New(errors.InvalidGraph, "--graph is required", nil)
	}
	g, err := graphfile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate[string](g); err != nil {
		return nil, err
	}
	if reverse {
		return graph.InvertEdgeDirections[string](g), nil
	}
	return g, nil
}

// printResponse writes resp to stdout in the selected --format.
func printResponse(resp interface{}) {
	output, err := FormatResponse(resp, OutputFormat(formatFlag))
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(output)
}

// exitWithError prints err as a coded error on stderr and exits 1.
func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, formatError(errors.FromError(err), OutputFormat(formatFlag)))
	os.Exit(1)
}
