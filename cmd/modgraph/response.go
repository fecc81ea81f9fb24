package main

import (
	"modgraph/internal/modules"
	"modgraph/internal/storage"
)

// PathResponseCLI is the output of `modgraph path`
type PathResponseCLI struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Reverse bool     `json:"reverse,omitempty"`
	Found   bool     `json:"found"`
	Path    []string `json:"path"`
	Length  int      `json:"length"`
}

// PathEntryCLI is one of the k shortest paths
type PathEntryCLI struct {
	Nodes  []string `json:"nodes"`
	Length int      `json:"length"`
}

// KPathsResponseCLI is the output of `modgraph kpaths`
type KPathsResponseCLI struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	K     int            `json:"k"`
	Paths []PathEntryCLI `json:"paths"`
}

// CyclesResponseCLI is the output of `modgraph cycles`
type CyclesResponseCLI struct {
	Node   string     `json:"node"`
	Cycles [][]string `json:"cycles"`
	Count  int        `json:"count"`
}

// ComponentCLI is a strongly connected component
type ComponentCLI struct {
	Index  int      `json:"index"`
	Nodes  []string `json:"nodes"`
	Cyclic bool     `json:"cyclic"`
}

// ComponentEdgeCLI is an edge of the condensation graph, by component index
type ComponentEdgeCLI struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// SCCResponseCLI is the output of `modgraph scc`
type SCCResponseCLI struct {
	Acyclic    bool               `json:"acyclic"`
	Components []ComponentCLI     `json:"components"`
	Edges      []ComponentEdgeCLI `json:"edges"`
	Order      []string           `json:"order,omitempty"`
}

// ReachResponseCLI is the output of `modgraph reach`
type ReachResponseCLI struct {
	Start     []string `json:"start"`
	Reverse   bool     `json:"reverse,omitempty"`
	Reachable []string `json:"reachable"`
	Count     int      `json:"count"`
}

// RankResultCLI is a ranked node
type RankResultCLI struct {
	Node  string   `json:"node"`
	Score float64  `json:"score"`
	Path  []string `json:"path,omitempty"`
}

// RankResponseCLI is the output of `modgraph rank`
type RankResponseCLI struct {
	Seeds      []string        `json:"seeds"`
	Results    []RankResultCLI `json:"results"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
	TotalNodes int             `json:"totalNodes"`
}

// RootMatchCLI is the resolution of one file path
type RootMatchCLI struct {
	Path     string `json:"path"`
	Mapped   bool   `json:"mapped"`
	Root     string `json:"root,omitempty"`
	ModuleID string `json:"moduleId,omitempty"`
	Module   string `json:"module,omitempty"`
}

// RootsResponseCLI is the output of `modgraph roots`
type RootsResponseCLI struct {
	CaseSensitive bool           `json:"caseSensitive"`
	RootCount     int            `json:"rootCount"`
	Matches       []RootMatchCLI `json:"matches"`
}

// ModulesResponseCLI is the output of `modgraph modules`
type ModulesResponseCLI struct {
	RepoRoot         string            `json:"repoRoot"`
	Method           string            `json:"method"`
	Modules          []*modules.Module `json:"modules"`
	Report           *modules.Report   `json:"report"`
	SnapshotID       string            `json:"snapshotId,omitempty"`
	DeclarationsFile string            `json:"declarationsFile,omitempty"`
	ExportFile       string            `json:"exportFile,omitempty"`
}

// SnapshotListResponseCLI is the output of `modgraph snapshot list`
type SnapshotListResponseCLI struct {
	Snapshots []storage.SnapshotSummary `json:"snapshots"`
}

// SnapshotResponseCLI is the output of `modgraph snapshot show`
type SnapshotResponseCLI struct {
	Snapshot *storage.Snapshot `json:"snapshot"`
}

// SnapshotDeleteResponseCLI is the output of `modgraph snapshot delete`
type SnapshotDeleteResponseCLI struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// VersionResponseCLI is the output of `modgraph version`
type VersionResponseCLI struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}
