package modules

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"modgraph/internal/logging"
	"modgraph/internal/paths"
)

// Detection methods, in cascade order
const (
	MethodDeclared = "declared"
	MethodExplicit = "explicit"
	MethodManifest = "manifest"
	MethodFallback = "fallback"
)

// Options controls module detection
type Options struct {
	// Roots are explicit module roots; they replace manifest discovery.
	Roots []string
	// Ignore lists directory names that are never descended into.
	Ignore []string
	// Manifests restricts and orders the manifest files that mark a module.
	// Empty means every supported manifest in ManifestFiles order.
	Manifests []string
	// DeclarationFile defaults to MODULES.toml.
	DeclarationFile string
	// CaseSensitive selects the path policy of the root index.
	CaseSensitive bool
	// Concurrency bounds parallel manifest parsing. Zero means GOMAXPROCS.
	Concurrency int
}

// candidate is a module whose dependencies are not resolved yet.
type candidate struct {
	module       *Module
	declaredName bool
	declaredDeps []string
	info         *manifestInfo
}

// DetectModules detects modules in a repository using the cascading
// resolution order: MODULES.toml, explicit roots, manifests, top-level
// directories. Manifests found for the chosen modules are parsed in
// parallel and their local dependencies become module dependencies.
func DetectModules(ctx context.Context, repoRoot string, opts Options, logger *logging.Logger) (*Set, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(map[string]interface{}{"repoRoot": repoRoot})

	order := manifestOrder(opts.Manifests)
	method, candidates, err := findCandidates(ctx, repoRoot, opts, order, logger)
	if err != nil {
		return nil, err
	}

	if err := parseManifests(ctx, repoRoot, candidates, opts.Concurrency, logger); err != nil {
		return nil, err
	}

	mods := make([]*Module, len(candidates))
	for i, c := range candidates {
		mods[i] = c.module
	}
	set, err := NewSet(repoRoot, mods, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}
	set.Method = method

	resolveDependencies(set, candidates, logger)

	logger.Info("Module detection completed", map[string]interface{}{
		"method":      method,
		"moduleCount": len(mods),
	})
	return set, nil
}

func findCandidates(ctx context.Context, repoRoot string, opts Options, order []string, logger *logging.Logger) (string, []*candidate, error) {
	declFile := opts.DeclarationFile
	if declFile == "" {
		declFile = ModulesDeclarationFile
	}
	declPath := filepath.Join(repoRoot, declFile)
	if _, err := os.Stat(declPath); err == nil {
		file, err := ParseModulesFile(declPath)
		if err != nil {
			return "", nil, err
		}
		candidates, err := declaredCandidates(repoRoot, file.Modules, order)
		if err != nil {
			return "", nil, err
		}
		return MethodDeclared, candidates, nil
	}

	if len(opts.Roots) > 0 {
		return MethodExplicit, explicitCandidates(repoRoot, opts.Roots, order, logger), nil
	}

	candidates, err := manifestCandidates(ctx, repoRoot, opts.Ignore, order, logger)
	if err != nil {
		return "", nil, err
	}
	if len(candidates) > 0 {
		return MethodManifest, candidates, nil
	}

	candidates, err = fallbackCandidates(repoRoot, opts.Ignore)
	if err != nil {
		return "", nil, err
	}
	return MethodFallback, candidates, nil
}

func manifestOrder(configured []string) []string {
	if len(configured) == 0 {
		out := make([]string, len(ManifestFiles))
		for i, mf := range ManifestFiles {
			out[i] = mf.FileName
		}
		return out
	}
	return configured
}

// explicitCandidates detects modules from explicit configuration
func explicitCandidates(repoRoot string, roots []string, order []string, logger *logging.Logger) []*candidate {
	var out []*candidate

	for _, root := range roots {
		root = paths.NormalizePath(root)
		absPath := filepath.Join(repoRoot, filepath.FromSlash(root))

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			logger.Warn("Explicit module root does not exist", map[string]interface{}{
				"root": root,
			})
			continue
		}

		manifest := manifestInDir(absPath, order)
		var language string
		if manifest != ManifestNone {
			language = manifestLanguage(manifest, absPath)
		} else {
			language = detectLanguageFromFiles(absPath)
		}

		m := NewModule(GenerateModuleID(root), baseName(repoRoot, root), root, manifest, language)
		out = append(out, &candidate{module: m})

		logger.Debug("Detected explicit module", map[string]interface{}{
			"id":           m.ID,
			"rootPath":     root,
			"manifestType": manifest,
			"language":     language,
		})
	}

	return out
}

// manifestCandidates walks the repository and finds every directory holding
// a manifest. Nested modules are kept; a file maps to the innermost root.
func manifestCandidates(ctx context.Context, repoRoot string, ignoreDirs []string, order []string, logger *logging.Logger) ([]*candidate, error) {
	ignoreMap := make(map[string]bool)
	for _, dir := range ignoreDirs {
		ignoreMap[dir] = true
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	best := make(map[string]string) // dir -> manifest

	err := filepath.WalkDir(repoRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			relPath, _ := filepath.Rel(repoRoot, p)
			if relPath != "." && shouldIgnore(filepath.ToSlash(relPath), ignoreMap) {
				return filepath.SkipDir
			}
			return nil
		}

		r, ok := rank[d.Name()]
		if !ok {
			return nil
		}
		relDir, _ := filepath.Rel(repoRoot, filepath.Dir(p))
		dir := paths.NormalizePath(relDir)
		if cur, seen := best[dir]; !seen || r < rank[cur] {
			best[dir] = d.Name()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(best))
	for dir := range best {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	out := make([]*candidate, 0, len(dirs))
	for _, dir := range dirs {
		manifest := best[dir]
		abs := filepath.Join(repoRoot, filepath.FromSlash(dir))
		m := NewModule(GenerateModuleID(dir), baseName(repoRoot, dir), dir, manifest, manifestLanguage(manifest, abs))
		out = append(out, &candidate{module: m})

		logger.Debug("Detected manifest module", map[string]interface{}{
			"id":           m.ID,
			"rootPath":     dir,
			"manifestType": manifest,
		})
	}
	return out, nil
}

// fallbackCandidates uses top-level directories as modules
func fallbackCandidates(repoRoot string, ignoreDirs []string) ([]*candidate, error) {
	ignoreMap := make(map[string]bool)
	for _, dir := range ignoreDirs {
		ignoreMap[dir] = true
	}

	entries, err := os.ReadDir(repoRoot)
	if err != nil {
		return nil, err
	}

	var out []*candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		if strings.HasPrefix(dirName, ".") || shouldIgnore(dirName, ignoreMap) {
			continue
		}
		language := detectLanguageFromFiles(filepath.Join(repoRoot, dirName))
		m := NewModule(GenerateModuleID(dirName), dirName, dirName, ManifestNone, language)
		out = append(out, &candidate{module: m})
	}
	return out, nil
}

// parseManifests reads the manifest of every candidate that has one.
// A manifest that fails to parse is logged and contributes nothing.
func parseManifests(ctx context.Context, repoRoot string, candidates []*candidate, limit int, logger *logging.Logger) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, c := range candidates {
		if !c.module.IsManifestBased() {
			continue
		}
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file := filepath.Join(repoRoot, filepath.FromSlash(c.module.RootPath), c.module.ManifestType)
			info, err := parseManifest(file, c.module.ManifestType)
			if err != nil {
				logger.Warn("Skipping unreadable manifest", map[string]interface{}{
					"file":  file,
					"error": err.Error(),
				})
				return nil
			}
			c.info = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, c := range candidates {
		if c.info != nil && c.info.Name != "" && !c.declaredName {
			c.module.Name = c.info.Name
		}
	}
	return nil
}

// resolveDependencies links each module to the modules its manifest or
// declaration references. References outside the set are external and
// dropped.
func resolveDependencies(set *Set, candidates []*candidate, logger *logging.Logger) {
	byIdentity := make(map[string]map[string]string) // manifest type -> identity -> id
	for _, c := range candidates {
		if c.info == nil || c.info.Identity == "" {
			continue
		}
		kind := c.module.ManifestType
		if byIdentity[kind] == nil {
			byIdentity[kind] = make(map[string]string)
		}
		byIdentity[kind][c.info.Identity] = c.module.ID
	}

	for _, c := range candidates {
		m := c.module

		for _, ref := range c.declaredDeps {
			if dep, ok := set.byID[ref]; ok {
				m.addDependency(dep.ID)
				continue
			}
			if dep, ok := set.byRoot[paths.NormalizePath(ref)]; ok {
				m.addDependency(dep.ID)
				continue
			}
			logger.Warn("Unresolved declared dependency", map[string]interface{}{
				"module":     m.ID,
				"dependency": ref,
			})
		}

		if c.info == nil {
			continue
		}
		for _, name := range c.info.NameDeps {
			if id, ok := byIdentity[m.ManifestType][name]; ok {
				m.addDependency(id)
			}
		}
		for _, rel := range c.info.PathDeps {
			target := paths.NormalizePath(path.Join(m.RootPath, filepath.ToSlash(rel)))
			if dep, ok := set.byRoot[target]; ok {
				m.addDependency(dep.ID)
			}
		}
		sort.Strings(m.Dependencies)
	}
}

// manifestInDir returns the first manifest of order present in dir
func manifestInDir(dir string, order []string) string {
	for _, name := range order {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name
		}
	}
	return ManifestNone
}

// detectLanguageFromFiles scans a directory for source files and infers the language
func detectLanguageFromFiles(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return LanguageUnknown
	}

	langCounts := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".go":
			langCounts[LanguageGo]++
		case ".ts", ".tsx":
			langCounts[LanguageTypeScript]++
		case ".js", ".jsx":
			langCounts[LanguageJavaScript]++
		case ".dart":
			langCounts[LanguageDart]++
		case ".py":
			langCounts[LanguagePython]++
		case ".rs":
			langCounts[LanguageRust]++
		case ".java":
			langCounts[LanguageJava]++
		case ".kt", ".kts":
			langCounts[LanguageKotlin]++
		}
	}

	maxCount := 0
	bestLang := LanguageUnknown
	for lang, count := range langCounts {
		if count > maxCount || (count == maxCount && count > 0 && lang < bestLang) {
			maxCount = count
			bestLang = lang
		}
	}
	return bestLang
}

func baseName(repoRoot, root string) string {
	if root == "" {
		abs, err := filepath.Abs(repoRoot)
		if err != nil {
			return filepath.Base(repoRoot)
		}
		return filepath.Base(abs)
	}
	return path.Base(root)
}

// shouldIgnore checks if a '/'-separated path or any of its parents is ignored
func shouldIgnore(relPath string, ignoreMap map[string]bool) bool {
	if ignoreMap[relPath] {
		return true
	}
	for _, part := range strings.Split(relPath, "/") {
		if ignoreMap[part] {
			return true
		}
	}
	return false
}
