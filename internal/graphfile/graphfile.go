// Package graphfile reads and writes directed graphs described as a node
// list plus an edge list, in JSON, YAML or TOML.
//
//	nodes: [a, b, c]
//	edges:
//	  - {from: a, to: b}
//
// Nodes named only by edges are added implicitly.
package graphfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"modgraph/internal/graph"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .json, .yaml, .yml and .toml.
	ErrUnsupportedFormat = errors.New("unsupported graph file format")

	// ErrEmptyNodeName is returned when a node or edge endpoint is blank.
	ErrEmptyNodeName = errors.New("empty node name")
)

// Format identifies a graph file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Edge is one directed edge.
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// File is the on-disk shape of a graph.
type File struct {
	Nodes []string `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Edges []Edge   `json:"edges" yaml:"edges" toml:"edges"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads a graph file, choosing the decoder by extension.
func Load(path string) (*graph.Graph[string], error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Decode reads a graph in the given format.
func Decode(r io.Reader, format Format) (*graph.Graph[string], error) {
	var file File

	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case TOML:
		if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return file.Graph()
}

// Graph builds a graph from the file contents.
func (f *File) Graph() (*graph.Graph[string], error) {
	g := graph.NewGraph[string]()
	for i, n := range f.Nodes {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("%w: nodes[%d]", ErrEmptyNodeName, i)
		}
		g.AddNode(n)
	}
	for i, e := range f.Edges {
		if strings.TrimSpace(e.From) == "" || strings.TrimSpace(e.To) == "" {
			return nil, fmt.Errorf("%w: edges[%d]", ErrEmptyNodeName, i)
		}
		g.AddEdge(e.From, e.To)
	}
	return g, nil
}

// FromGraph captures g as a File. Every node is listed so isolated nodes
// survive a round trip.
func FromGraph(g graph.DirectedGraph[string]) *File {
	nodes := g.Nodes()
	file := &File{Nodes: nodes, Edges: []Edge{}}
	for _, n := range nodes {
		for _, out := range g.Out(n) {
			file.Edges = append(file.Edges, Edge{From: n, To: out})
		}
	}
	return file
}

// Encode writes g in the given format.
func Encode(w io.Writer, format Format, g graph.DirectedGraph[string]) error {
	file := FromGraph(g)

	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(file)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(file)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
