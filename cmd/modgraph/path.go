package main

import (
	"time"

	"github.com/spf13/cobra"

	"modgraph/internal/graph"
)

var (
	pathGraph   string
	pathReverse bool
)

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Find a shortest path between two nodes",
	Long: `Find a path with the fewest edges from one node to another.

Examples:
  modgraph path --graph deps.yaml app core
  modgraph path --graph deps.yaml --reverse core app
  modgraph path --graph deps.json app app --format=human`,
	Args: cobra.ExactArgs(2),
	Run:  runPath,
}

func init() {
	pathCmd.Flags().StringVar(&pathGraph, "graph", "", "Graph file (.json, .yaml, .toml)")
	pathCmd.Flags().BoolVar(&pathReverse, "reverse", false, "Follow edges backwards")
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) {
	start := time.Now()
	repoRoot := mustGetRepoRoot()
	logger := newLogger(mustLoadConfig(repoRoot))

	resp, err := shortestPath(pathGraph, pathReverse, args[0], args[1])
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)

	logger.Debug("Shortest path completed", map[string]interface{}{
		"from":     args[0],
		"to":       args[1],
		"found":    resp.Found,
		"duration": time.Since(start).Milliseconds(),
	})
}

func shortestPath(graphPath string, reverse bool, from, to string) (*PathResponseCLI, error) {
	g, err := loadGraph(graphPath, reverse)
	if err != nil {
		return nil, err
	}
	if err := graph.RequireNodes(g, from, to); err != nil {
		return nil, err
	}

	resp := &PathResponseCLI{From: from, To: to, Reverse: reverse, Path: []string{}}
	if p := graph.FindShortestPath(g, from, to); p != nil {
		resp.Found = true
		resp.Path = p
		resp.Length = len(p) - 1
	}
	return resp, nil
}
