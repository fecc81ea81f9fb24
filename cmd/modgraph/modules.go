package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"modgraph/internal/config"
	"modgraph/internal/errors"
	"modgraph/internal/graphfile"
	"modgraph/internal/logging"
	"modgraph/internal/modules"
	"modgraph/internal/progress"
	"modgraph/internal/storage"
)

var (
	modulesSave              bool
	modulesWriteDeclarations bool
	modulesExport            string
	modulesTimeoutMs         int
	modulesConcurrency       int
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Detect modules and analyze their dependency graph",
	Long: `Detect the modules of the repository and analyze the dependencies between
them: cyclic groups, the cycles through each cyclic module, and a build order.

Modules come from MODULES.toml when present, otherwise from modules.roots in
the configuration, otherwise from manifest files (go.mod, Cargo.toml,
pubspec.yaml, package.json), otherwise from top-level directories.

Examples:
  modgraph modules
  modgraph modules --save
  modgraph modules --write-declarations
  modgraph modules --export deps.yaml --format=human`,
	Args: cobra.NoArgs,
	Run:  runModules,
}

func init() {
	modulesCmd.Flags().BoolVar(&modulesSave, "save", false, "Store the analysis as a snapshot")
	modulesCmd.Flags().BoolVar(&modulesWriteDeclarations, "write-declarations", false, "Write the detected modules to MODULES.toml")
	modulesCmd.Flags().StringVar(&modulesExport, "export", "", "Write the module graph to a graph file (.json, .yaml, .toml)")
	modulesCmd.Flags().IntVar(&modulesTimeoutMs, "timeout", 0, "Timeout in milliseconds (default: analysis.timeoutMs)")
	modulesCmd.Flags().IntVar(&modulesConcurrency, "concurrency", 0, "Parallel manifest parsers (default: GOMAXPROCS)")
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) {
	start := time.Now()
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)

	ctx := newContext()
	if timeout := analysisTimeout(modulesTimeoutMs, cfg); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	set, err := detectModules(ctx, repoRoot, cfg, logger)
	if err != nil {
		exitWithError(err)
	}
	report, err := modules.Analyze(set, progress.FromContext(ctx))
	if err != nil {
		exitWithError(err)
	}

	resp := &ModulesResponseCLI{
		RepoRoot: repoRoot,
		Method:   set.Method,
		Modules:  set.Modules(),
		Report:   report,
	}

	if modulesWriteDeclarations {
		file := filepath.Join(repoRoot, modules.ModulesDeclarationFile)
		if err := modules.WriteModulesFile(file, modules.DeclarationsFromSet(set)); err != nil {
			exitWithError(err)
		}
		resp.DeclarationsFile = file
	}

	if modulesExport != "" {
		if err := exportModuleGraph(modulesExport, set); err != nil {
			exitWithError(err)
		}
		resp.ExportFile = modulesExport
	}

	if modulesSave {
		id, err := saveSnapshot(repoRoot, cfg, logger, set, report)
		if err != nil {
			exitWithError(err)
		}
		resp.SnapshotID = id
	}

	printResponse(resp)

	logger.Debug("Module analysis completed", map[string]interface{}{
		"modules":  set.Len(),
		"method":   set.Method,
		"acyclic":  report.Acyclic,
		"duration": time.Since(start).Milliseconds(),
	})
}

// detectModules runs module detection with the modules section of cfg.
func detectModules(ctx context.Context, repoRoot string, cfg *config.Config, logger *logging.Logger) (*modules.Set, error) {
	return modules.DetectModules(ctx, repoRoot, modules.Options{
		Roots:         cfg.Modules.Roots,
		Ignore:        cfg.Modules.Ignore,
		Manifests:     cfg.Modules.Manifests,
		CaseSensitive: caseSensitive(cfg, repoRoot),
		Concurrency:   modulesConcurrency,
	}, logger)
}

func exportModuleGraph(file string, set *modules.Set) error {
	format, err := graphfile.FormatFromPath(file)
	if err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := graphfile.Encode(f, format, set.Graph()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// newSnapshot records a module set and its analysis.
func newSnapshot(set *modules.Set, report *modules.Report) *storage.Snapshot {
	snap := &storage.Snapshot{
		RepoRoot:   set.RepoRoot,
		Acyclic:    report.Acyclic,
		Components: report.Components,
		BuildOrder: report.BuildOrder,
	}
	for _, m := range set.Modules() {
		snap.Modules = append(snap.Modules, storage.SnapshotModule{
			ID:           m.ID,
			Name:         m.Name,
			RootPath:     m.RootPath,
			ManifestType: m.ManifestType,
			Language:     m.Language,
			Dependencies: m.Dependencies,
		})
	}
	g := set.Graph()
	for _, n := range g.Nodes() {
		for _, dep := range g.Out(n) {
			snap.Edges = append(snap.Edges, storage.Edge{From: n, To: dep})
		}
	}
	return snap
}

func saveSnapshot(repoRoot string, cfg *config.Config, logger *logging.Logger, set *modules.Set, report *modules.Report) (string, error) {
	db, err := openStorage(repoRoot, cfg, logger)
	if err != nil {
		return "", err
	}
	defer db.Close()

	snap := newSnapshot(set, report)
	if err := storage.NewSnapshotRepository(db).Save(snap); err != nil {
		return "", err
	}
	logger.Info("Saved snapshot", map[string]interface{}{
		"id":      snap.ID,
		"modules": len(snap.Modules),
	})
	return snap.ID, nil
}

// openStorage opens the snapshot database unless storage is disabled.
func openStorage(repoRoot string, cfg *config.Config, logger *logging.Logger) (*storage.DB, error) {
	if !cfg.Storage.Enabled {
		return nil, errors.New(errors.ConfigInvalid, "snapshot storage is disabled (storage.enabled=false)", nil)
	}
	return storage.Open(repoRoot, cfg.Storage.Path, logger)
}
