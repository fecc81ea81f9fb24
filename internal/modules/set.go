package modules

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"modgraph/internal/graph"
	"modgraph/internal/pathindex"
	"modgraph/internal/paths"
)

// Set is a detected collection of modules with a longest-prefix index over
// their roots.
type Set struct {
	RepoRoot string
	Method   string

	modules []*Module
	byID    map[string]*Module
	byRoot  map[string]*Module
	roots   *pathindex.Index[*Module]
}

// NewSet indexes modules by id and by root. Ids and roots must be unique.
func NewSet(repoRoot string, mods []*Module, caseSensitive bool) (*Set, error) {
	s := &Set{
		RepoRoot: repoRoot,
		modules:  make([]*Module, 0, len(mods)),
		byID:     make(map[string]*Module, len(mods)),
		byRoot:   make(map[string]*Module, len(mods)),
		roots:    pathindex.New[*Module](caseSensitive),
	}

	for _, m := range mods {
		m.RootPath = paths.NormalizePath(m.RootPath)
		if _, dup := s.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %q", m.ID)
		}
		if s.roots.ContainsKey(m.RootPath) {
			return nil, fmt.Errorf("duplicate module root %q", displayRoot(m.RootPath))
		}
		s.byID[m.ID] = m
		s.byRoot[m.RootPath] = m
		s.roots.Add(m.RootPath, m)
		s.modules = append(s.modules, m)
	}

	sort.Slice(s.modules, func(i, j int) bool {
		return s.modules[i].RootPath < s.modules[j].RootPath
	})
	return s, nil
}

// Modules returns the modules ordered by root path.
func (s *Set) Modules() []*Module {
	return append([]*Module(nil), s.modules...)
}

// Len returns the number of modules.
func (s *Set) Len() int {
	return len(s.modules)
}

// Module looks a module up by id.
func (s *Set) Module(id string) (*Module, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
}

// RootIndex exposes the root index. One entry per module root.
func (s *Set) RootIndex() *pathindex.Index[*Module] {
	return s.roots
}

// ModuleForFile returns the module with the longest root containing p.
// p is either absolute or relative to the repository root.
func (s *Set) ModuleForFile(p string) (*Module, bool) {
	rel, ok := s.relative(p)
	if !ok {
		return nil, false
	}
	return s.roots.GetMappingFor(rel)
}

func (s *Set) relative(p string) (string, bool) {
	if filepath.IsAbs(p) {
		canonical, err := paths.CanonicalizePath(p, s.RepoRoot)
		if err != nil {
			return "", false
		}
		p = canonical
	}
	rel := paths.NormalizePath(p)
	if rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	return rel, true
}

// Graph returns the dependency graph: an edge from each module to every
// module it depends on.
func (s *Set) Graph() *graph.Graph[string] {
	g := graph.NewGraph[string]()
	for _, m := range s.modules {
		g.AddNode(m.ID)
	}
	for _, m := range s.modules {
		for _, dep := range m.Dependencies {
			if _, ok := s.byID[dep]; ok {
				g.AddEdge(m.ID, dep)
			}
		}
	}
	return g
}
