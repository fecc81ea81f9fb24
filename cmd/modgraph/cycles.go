package main

import (
	"github.com/spf13/cobra"

	"modgraph/internal/graph"
)

var (
	cyclesGraph   string
	cyclesReverse bool
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles <node>",
	Short: "List the elementary cycles through a node",
	Long: `List every elementary cycle that passes through a node. Each cycle starts
at the node and does not repeat it at the end.

Examples:
  modgraph cycles --graph deps.yaml ui
  modgraph cycles --graph deps.yaml ui --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runCycles,
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesGraph, "graph", "", "Graph file (.json, .yaml, .toml)")
	cyclesCmd.Flags().BoolVar(&cyclesReverse, "reverse", false, "Follow edges backwards")
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, args []string) {
	mustLoadConfig(mustGetRepoRoot())

	resp, err := cyclesThrough(cyclesGraph, cyclesReverse, args[0])
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

func cyclesThrough(graphPath string, reverse bool, node string) (*CyclesResponseCLI, error) {
	g, err := loadGraph(graphPath, reverse)
	if err != nil {
		return nil, err
	}
	if err := graph.RequireNodes(g, node); err != nil {
		return nil, err
	}

	cycles := graph.FindCycles(g, node)
	if cycles == nil {
		cycles = [][]string{}
	}
	return &CyclesResponseCLI{Node: node, Cycles: cycles, Count: len(cycles)}, nil
}
