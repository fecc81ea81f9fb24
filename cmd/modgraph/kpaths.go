package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"modgraph/internal/config"
	"modgraph/internal/graph"
	"modgraph/internal/progress"
)

var (
	kpathsGraph     string
	kpathsReverse   bool
	kpathsK         int
	kpathsTimeoutMs int
)

var kpathsCmd = &cobra.Command{
	Use:   "kpaths <from> <to>",
	Short: "Find the k shortest loopless paths between two nodes",
	Long: `Find up to k loopless paths from one node to another, shortest first.

The search stops with a CANCELED error when the timeout expires.

Examples:
  modgraph kpaths --graph deps.yaml app core
  modgraph kpaths --graph deps.yaml -k 10 app core
  modgraph kpaths --graph deps.yaml --timeout 500 app core`,
	Args: cobra.ExactArgs(2),
	Run:  runKPaths,
}

func init() {
	kpathsCmd.Flags().StringVar(&kpathsGraph, "graph", "", "Graph file (.json, .yaml, .toml)")
	kpathsCmd.Flags().BoolVar(&kpathsReverse, "reverse", false, "Follow edges backwards")
	kpathsCmd.Flags().IntVarP(&kpathsK, "k", "k", 0, "Maximum number of paths (default: analysis.maxPaths)")
	kpathsCmd.Flags().IntVar(&kpathsTimeoutMs, "timeout", 0, "Timeout in milliseconds (default: analysis.timeoutMs)")
	rootCmd.AddCommand(kpathsCmd)
}

func runKPaths(cmd *cobra.Command, args []string) {
	start := time.Now()
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)

	resp, err := kShortestPaths(newContext(), cfg, kpathsGraph, kpathsReverse, args[0], args[1], kpathsK, kpathsTimeoutMs)
	if err != nil {
		logger.Debug("K shortest paths failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(start).Milliseconds(),
		})
		exitWithError(err)
	}
	printResponse(resp)

	logger.Debug("K shortest paths completed", map[string]interface{}{
		"from":     args[0],
		"to":       args[1],
		"paths":    len(resp.Paths),
		"duration": time.Since(start).Milliseconds(),
	})
}

func kShortestPaths(ctx context.Context, cfg *config.Config, graphPath string, reverse bool, from, to string, k, timeoutMs int) (*KPathsResponseCLI, error) {
	g, err := loadGraph(graphPath, reverse)
	if err != nil {
		return nil, err
	}
	if err := graph.RequireNodes(g, from, to); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = cfg.Analysis.MaxPaths
	}

	if timeout := analysisTimeout(timeoutMs, cfg); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	found, err := graph.FindKShortestPaths(g, from, to, k, progress.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	resp := &KPathsResponseCLI{From: from, To: to, K: k, Paths: make([]PathEntryCLI, 0, len(found))}
	for _, p := range found {
		resp.Paths = append(resp.Paths, PathEntryCLI{Nodes: p, Length: len(p) - 1})
	}
	return resp, nil
}
