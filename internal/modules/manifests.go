package modules

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// ManifestFile represents a manifest file that can be used to detect modules
type ManifestFile struct {
	// FileName is the name of the manifest file
	FileName string
	// Language is the language associated with this manifest
	Language string
}

// ManifestFiles lists the supported manifests. When a directory holds more
// than one, the first in the configured order wins.
var ManifestFiles = []ManifestFile{
	{FileName: ManifestGoMod, Language: LanguageGo},
	{FileName: ManifestCargoToml, Language: LanguageRust},
	{FileName: ManifestPubspecYaml, Language: LanguageDart},
	{FileName: ManifestPackageJSON, Language: LanguageTypeScript},
}

// manifestInfo is what a manifest says about its module.
type manifestInfo struct {
	// Name is the display name.
	Name string
	// Identity is the name other manifests of the same kind use to refer
	// to this module (go module path, package name).
	Identity string
	// NameDeps are dependencies referenced by identity.
	NameDeps []string
	// PathDeps are dependencies referenced by a path relative to the
	// manifest's directory.
	PathDeps []string
}

func manifestLanguage(manifestType, dir string) string {
	if manifestType == ManifestPackageJSON {
		if _, err := os.Stat(filepath.Join(dir, "tsconfig.json")); err != nil {
			return LanguageJavaScript
		}
	}
	for _, mf := range ManifestFiles {
		if mf.FileName == manifestType {
			return mf.Language
		}
	}
	return LanguageUnknown
}

// parseManifest reads the manifest of the given type at file.
func parseManifest(file, manifestType string) (*manifestInfo, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var info *manifestInfo
	switch manifestType {
	case ManifestGoMod:
		info, err = parseGoMod(file, data)
	case ManifestCargoToml:
		info, err = parseCargoToml(data)
	case ManifestPubspecYaml:
		info, err = parsePubspec(data)
	case ManifestPackageJSON:
		info, err = parsePackageJSON(data)
	default:
		return nil, fmt.Errorf("unsupported manifest %q", manifestType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	sort.Strings(info.NameDeps)
	sort.Strings(info.PathDeps)
	return info, nil
}

func parseGoMod(file string, data []byte) (*manifestInfo, error) {
	f, err := modfile.ParseLax(file, data, nil)
	if err != nil {
		return nil, err
	}

	info := &manifestInfo{}
	if f.Module != nil {
		info.Identity = f.Module.Mod.Path
		info.Name = path.Base(f.Module.Mod.Path)
	}
	for _, r := range f.Require {
		info.NameDeps = append(info.NameDeps, r.Mod.Path)
	}
	for _, r := range f.Replace {
		if isLocalPath(r.New.Path) {
			info.PathDeps = append(info.PathDeps, r.New.Path)
		}
	}
	return info, nil
}

func parseCargoToml(data []byte) (*manifestInfo, error) {
	var cargo struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Dependencies      map[string]interface{} `toml:"dependencies"`
		DevDependencies   map[string]interface{} `toml:"dev-dependencies"`
		BuildDependencies map[string]interface{} `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, err
	}

	info := &manifestInfo{Name: cargo.Package.Name, Identity: cargo.Package.Name}
	for _, deps := range []map[string]interface{}{cargo.Dependencies, cargo.DevDependencies, cargo.BuildDependencies} {
		info.PathDeps = append(info.PathDeps, pathEntries(deps)...)
	}
	return info, nil
}

func parsePubspec(data []byte) (*manifestInfo, error) {
	var pubspec struct {
		Name            string                 `yaml:"name"`
		Dependencies    map[string]interface{} `yaml:"dependencies"`
		DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &pubspec); err != nil {
		return nil, err
	}

	info := &manifestInfo{Name: pubspec.Name, Identity: pubspec.Name}
	info.PathDeps = append(pathEntries(pubspec.Dependencies), pathEntries(pubspec.DevDependencies)...)
	return info, nil
}

func parsePackageJSON(data []byte) (*manifestInfo, error) {
	var pkg struct {
		Name            string            `json:"name"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	info := &manifestInfo{Name: pkg.Name, Identity: pkg.Name}
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies} {
		for name, spec := range deps {
			switch {
			case strings.HasPrefix(spec, "file:"):
				info.PathDeps = append(info.PathDeps, strings.TrimPrefix(spec, "file:"))
			case strings.HasPrefix(spec, "link:"):
				info.PathDeps = append(info.PathDeps, strings.TrimPrefix(spec, "link:"))
			default:
				info.NameDeps = append(info.NameDeps, name)
			}
		}
	}
	return info, nil
}

// pathEntries returns the "path" values of dependency tables such as
// `core = { path = "../core" }`.
func pathEntries(deps map[string]interface{}) []string {
	var out []string
	for _, v := range deps {
		table, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if p, ok := table["path"].(string); ok && p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") ||
		p == "." || p == ".." || filepath.IsAbs(p)
}
