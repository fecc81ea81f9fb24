package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"modgraph/internal/config"
	"modgraph/internal/logging"
	"modgraph/internal/modules"
	"modgraph/internal/pathindex"
	"modgraph/internal/paths"
)

var rootsRoots []string

var rootsCmd = &cobra.Command{
	Use:   "roots <path>...",
	Short: "Resolve files to the innermost module root containing them",
	Long: `Resolve each path to the longest registered root that is a prefix of it.

Roots come from module detection unless given with --root. Paths are
absolute or relative to the repository root. Matching follows
paths.caseSensitivity from the configuration.

Examples:
  modgraph roots services/api/main.go
  modgraph roots --root libs --root libs/core libs/core/src/a.rs libs/x.go`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRoots,
}

func init() {
	rootsCmd.Flags().StringSliceVar(&rootsRoots, "root", nil, "Register a root instead of detecting modules (repeatable)")
	rootCmd.AddCommand(rootsCmd)
}

func runRoots(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)

	resp, err := resolveRoots(newContext(), repoRoot, cfg, logger, rootsRoots, args)
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

// resolveRoots maps every file to its root. It fails only when none of the
// files is mapped.
func resolveRoots(ctx context.Context, repoRoot string, cfg *config.Config, logger *logging.Logger, roots []string, files []string) (*RootsResponseCLI, error) {
	cs := caseSensitive(cfg, repoRoot)
	resp := &RootsResponseCLI{CaseSensitive: cs, Matches: make([]RootMatchCLI, 0, len(files))}

	var lookup func(p string) RootMatchCLI
	if len(roots) > 0 {
		idx := pathindex.New[string](cs)
		for _, r := range roots {
			idx.Add(repoRelative(repoRoot, r), r)
		}
		resp.RootCount = idx.Len()
		lookup = func(p string) RootMatchCLI {
			match := RootMatchCLI{Path: p}
			if rel, ok := insideRepo(repoRoot, p); ok {
				if root, found := idx.GetMappingFor(rel); found {
					match.Mapped = true
					match.Root = paths.NormalizePath(root)
				}
			}
			return match
		}
	} else {
		set, err := detectModules(ctx, repoRoot, cfg, logger)
		if err != nil {
			return nil, err
		}
		resp.RootCount = set.Len()
		lookup = func(p string) RootMatchCLI {
			match := RootMatchCLI{Path: p}
			if m, found := set.ModuleForFile(p); found {
				match.Mapped = true
				match.Root = m.RootPath
				match.ModuleID = m.ID
				match.Module = m.Name
			}
			return match
		}
	}

	var unmapped []string
	for _, f := range files {
		match := lookup(f)
		if !match.Mapped {
			unmapped = append(unmapped, f)
		}
		resp.Matches = append(resp.Matches, match)
	}
	if len(unmapped) == len(files) {
		return nil, fmt.Errorf("%w: %s", modules.ErrPathNotMapped, strings.Join(unmapped, ", "))
	}
	return resp, nil
}

func repoRelative(repoRoot, p string) string {
	if rel, ok := insideRepo(repoRoot, p); ok {
		return rel
	}
	return paths.NormalizePath(p)
}

func insideRepo(repoRoot, p string) (string, bool) {
	if filepath.IsAbs(p) {
		canonical, err := paths.CanonicalizePath(p, repoRoot)
		if err != nil {
			return "", false
		}
		p = canonical
	}
	rel := paths.NormalizePath(p)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
