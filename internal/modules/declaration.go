package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"modgraph/internal/paths"
)

// ModulesDeclarationFile is the default filename for module declarations
const ModulesDeclarationFile = "MODULES.toml"

// ModuleDeclaration represents a declared module in MODULES.toml
type ModuleDeclaration struct {
	// ID is the unique module identifier (optional, defaults to the path)
	ID string `toml:"id,omitempty"`

	// Name is the human-readable name of the module
	Name string `toml:"name,omitempty"`

	// Path is the repo-relative path to the module root
	Path string `toml:"path"`

	// Dependencies name other declared modules by id or by path
	Dependencies []string `toml:"dependencies,omitempty"`

	// Tags are classification tags for the module
	Tags []string `toml:"tags,omitempty"`

	// Language is the primary language of the module (optional, will be detected)
	Language string `toml:"language,omitempty"`
}

// ModulesFile represents the root structure of MODULES.toml
type ModulesFile struct {
	Version int                 `toml:"version"`
	Modules []ModuleDeclaration `toml:"module"`
}

// ParseModulesFile parses a MODULES.toml file from the given path
func ParseModulesFile(filePath string) (*ModulesFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(filePath), err)
	}

	var modulesFile ModulesFile
	if err := toml.Unmarshal(data, &modulesFile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(filePath), err)
	}

	if modulesFile.Version < 1 {
		modulesFile.Version = 1
	}

	return &modulesFile, nil
}

// WriteModulesFile writes a ModulesFile to the given path
func WriteModulesFile(filePath string, modulesFile *ModulesFile) error {
	data, err := toml.Marshal(modulesFile)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(filePath), err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(filePath, data, 0644)
}

// DeclarationsFromSet turns a detected set back into declarations, so a
// scan can seed a hand-maintained MODULES.toml.
func DeclarationsFromSet(set *Set) *ModulesFile {
	file := &ModulesFile{Version: 1}
	for _, m := range set.Modules() {
		file.Modules = append(file.Modules, ModuleDeclaration{
			ID:           m.ID,
			Name:         m.Name,
			Path:         displayRoot(m.RootPath),
			Dependencies: append([]string(nil), m.Dependencies...),
			Tags:         append([]string(nil), m.Tags...),
			Language:     m.Language,
		})
	}
	return file
}

// GenerateModuleID derives the default id of a module from its root.
// The repository root gets ".".
func GenerateModuleID(rootPath string) string {
	return displayRoot(paths.NormalizePath(rootPath))
}

func displayRoot(rootPath string) string {
	if rootPath == "" {
		return "."
	}
	return rootPath
}

// declaredCandidates converts declarations into detection candidates.
func declaredCandidates(repoRoot string, declarations []ModuleDeclaration, order []string) ([]*candidate, error) {
	var out []*candidate

	for i, decl := range declarations {
		if strings.TrimSpace(decl.Path) == "" {
			return nil, fmt.Errorf("module declaration %d missing required 'path' field", i)
		}

		root := paths.NormalizePath(decl.Path)
		id := decl.ID
		if id == "" {
			id = GenerateModuleID(root)
		}

		abs := filepath.Join(repoRoot, filepath.FromSlash(root))
		manifest := manifestInDir(abs, order)

		name := decl.Name
		if name == "" {
			name = baseName(repoRoot, root)
		}

		language := decl.Language
		if language == "" && manifest != ManifestNone {
			language = manifestLanguage(manifest, abs)
		}
		if language == "" {
			language = detectLanguageFromFiles(abs)
		}

		m := NewModule(id, name, root, manifest, language)
		m.Tags = decl.Tags
		out = append(out, &candidate{
			module:       m,
			declaredName: decl.Name != "",
			declaredDeps: decl.Dependencies,
		})
	}

	return out, nil
}
