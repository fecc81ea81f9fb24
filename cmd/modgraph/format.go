package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"modgraph/internal/errors"
	"modgraph/internal/modules"
	"modgraph/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *PathResponseCLI:
		return formatPathHuman(v), nil
	case *KPathsResponseCLI:
		return formatKPathsHuman(v), nil
	case *CyclesResponseCLI:
		return formatCyclesHuman(v), nil
	case *SCCResponseCLI:
		return formatSCCHuman(v), nil
	case *ReachResponseCLI:
		return formatReachHuman(v), nil
	case *RankResponseCLI:
		return formatRankHuman(v), nil
	case *RootsResponseCLI:
		return formatRootsHuman(v), nil
	case *ModulesResponseCLI:
		return formatModulesHuman(v), nil
	case *SnapshotListResponseCLI:
		return formatSnapshotListHuman(v), nil
	case *VersionResponseCLI:
		return fmt.Sprintf("modgraph version %s\nCommit: %s\nBuilt: %s", v.Version, v.Commit, v.BuildDate), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatNodes(nodes []string) string {
	return strings.Join(nodes, " -> ")
}

func formatPathHuman(resp *PathResponseCLI) string {
	if !resp.Found {
		return fmt.Sprintf("No path from %s to %s", resp.From, resp.To)
	}
	return fmt.Sprintf("%s\n(%d edges)", formatNodes(resp.Path), resp.Length)
}

func formatKPathsHuman(resp *KPathsResponseCLI) string {
	if len(resp.Paths) == 0 {
		return fmt.Sprintf("No path from %s to %s", resp.From, resp.To)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d of at most %d paths from %s to %s:\n", len(resp.Paths), resp.K, resp.From, resp.To)
	for i, p := range resp.Paths {
		fmt.Fprintf(&b, "  %d. [%d] %s\n", i+1, p.Length, formatNodes(p.Nodes))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCyclesHuman(resp *CyclesResponseCLI) string {
	if resp.Count == 0 {
		return fmt.Sprintf("%s is not on any cycle", resp.Node)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d cycles through %s:\n", resp.Count, resp.Node)
	for _, c := range resp.Cycles {
		fmt.Fprintf(&b, "  %s -> %s\n", formatNodes(c), c[0])
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSCCHuman(resp *SCCResponseCLI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d components, acyclic: %v\n", len(resp.Components), resp.Acyclic)
	for _, c := range resp.Components {
		marker := " "
		if c.Cyclic {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s[%d] %s\n", marker, c.Index, strings.Join(c.Nodes, ", "))
	}
	for _, e := range resp.Edges {
		fmt.Fprintf(&b, "  [%d] -> [%d]\n", e.From, e.To)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatReachHuman(resp *ReachResponseCLI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d nodes reachable from %s\n", resp.Count, strings.Join(resp.Start, ", "))
	for _, n := range resp.Reachable {
		fmt.Fprintf(&b, "  %s\n", n)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRankHuman(resp *RankResponseCLI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seeds: %s (%d iterations, converged: %v)\n",
		strings.Join(resp.Seeds, ", "), resp.Iterations, resp.Converged)
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "  %2d. %-30s %s", i+1, r.Node, output.FormatFloat(r.Score))
		if len(r.Path) > 1 {
			fmt.Fprintf(&b, "  via %s", formatNodes(r.Path))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRootsHuman(resp *RootsResponseCLI) string {
	var b strings.Builder
	for _, m := range resp.Matches {
		if !m.Mapped {
			fmt.Fprintf(&b, "%s: not mapped\n", m.Path)
			continue
		}
		root := m.Root
		if root == "" {
			root = "."
		}
		if m.ModuleID != "" {
			fmt.Fprintf(&b, "%s: %s (%s)\n", m.Path, m.ModuleID, root)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", m.Path, root)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatModulesHuman(resp *ModulesResponseCLI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d modules (%s) in %s\n", len(resp.Modules), resp.Method, resp.RepoRoot)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	for _, m := range resp.Modules {
		fmt.Fprintf(&b, "  %-24s %-10s %s\n", m.ID, m.Language, formatDeps(m))
	}
	if r := resp.Report; r != nil {
		fmt.Fprintf(&b, "\n%d dependencies, acyclic: %v\n", r.Dependencies, r.Acyclic)
		for _, g := range r.CyclicGroups {
			fmt.Fprintf(&b, "  cycle group: %s\n", strings.Join(g.Modules, ", "))
		}
		if len(r.BuildOrder) > 0 {
			fmt.Fprintf(&b, "Build order: %s\n", strings.Join(r.BuildOrder, ", "))
		}
	}
	if resp.SnapshotID != "" {
		fmt.Fprintf(&b, "Saved snapshot %s\n", resp.SnapshotID)
	}
	if resp.DeclarationsFile != "" {
		fmt.Fprintf(&b, "Wrote %s\n", resp.DeclarationsFile)
	}
	if resp.ExportFile != "" {
		fmt.Fprintf(&b, "Exported graph to %s\n", resp.ExportFile)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDeps(m *modules.Module) string {
	if len(m.Dependencies) == 0 {
		return ""
	}
	return "-> " + strings.Join(m.Dependencies, ", ")
}

func formatSnapshotListHuman(resp *SnapshotListResponseCLI) string {
	if len(resp.Snapshots) == 0 {
		return "No snapshots"
	}
	var b strings.Builder
	for _, s := range resp.Snapshots {
		fmt.Fprintf(&b, "%s  %s  %d modules, %d edges, acyclic: %v\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.ModuleCount, s.EdgeCount, s.Acyclic)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatError renders a coded error for stderr
func formatError(err *errors.Error, format OutputFormat) string {
	if format == FormatHuman {
		var b strings.Builder
		fmt.Fprintf(&b, "Error: %s", err.Error())
		for _, fix := range err.SuggestedFixes {
			switch fix.Type {
			case errors.RunCommand:
				fmt.Fprintf(&b, "\n  try: %s (%s)", fix.Command, fix.Description)
			case errors.EditFile:
				fmt.Fprintf(&b, "\n  edit: %s (%s)", fix.File, fix.Description)
			}
		}
		return b.String()
	}
	if err.Details == nil && err.Unwrap() != nil {
		err = err.WithDetails(map[string]string{"cause": err.Unwrap().Error()})
	}
	out, jsonErr := formatJSON(err)
	if jsonErr != nil {
		return err.Error()
	}
	return out
}
