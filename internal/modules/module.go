package modules

import (
	"errors"
	"time"
)

var (
	// ErrModuleNotFound is returned when a module id is not in the set.
	ErrModuleNotFound = errors.New("module not found")

	// ErrPathNotMapped is returned when no module root contains a path.
	ErrPathNotMapped = errors.New("path is not under any module root")
)

// Module represents a detected module/package in the repository
type Module struct {
	// ID is the unique identifier for this module
	ID string `json:"id"`

	// Name is the human-readable name of the module
	Name string `json:"name"`

	// RootPath is the repo-relative, '/'-separated path to the module root.
	// The repository root itself is "".
	RootPath string `json:"rootPath"`

	// ManifestType indicates which manifest file was used to detect this module
	ManifestType string `json:"manifestType"`

	// Language is the detected primary language of the module
	Language string `json:"language"`

	// Dependencies are the ids of other modules in the set this module uses
	Dependencies []string `json:"dependencies,omitempty"`

	// Tags come from MODULES.toml
	Tags []string `json:"tags,omitempty"`

	// DetectedAt is the timestamp when this module was detected
	DetectedAt string `json:"detectedAt"`
}

// ManifestType constants for the manifest files modgraph understands
const (
	ManifestPackageJSON = "package.json"
	ManifestPubspecYaml = "pubspec.yaml"
	ManifestGoMod       = "go.mod"
	ManifestCargoToml   = "Cargo.toml"
	ManifestNone        = "" // Declared or fallback modules without a manifest
)

// Language constants
const (
	LanguageTypeScript = "typescript"
	LanguageJavaScript = "javascript"
	LanguageDart       = "dart"
	LanguageGo         = "go"
	LanguageRust       = "rust"
	LanguagePython     = "python"
	LanguageJava       = "java"
	LanguageKotlin     = "kotlin"
	LanguageUnknown    = "unknown"
)

// NewModule creates a new Module with the current timestamp
func NewModule(id, name, rootPath, manifestType, language string) *Module {
	return &Module{
		ID:           id,
		Name:         name,
		RootPath:     rootPath,
		ManifestType: manifestType,
		Language:     language,
		DetectedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// IsManifestBased returns true if the module was detected via a manifest file
func (m *Module) IsManifestBased() bool {
	return m.ManifestType != ManifestNone
}

// addDependency records a dependency once, ignoring self references.
func (m *Module) addDependency(id string) {
	if id == m.ID {
		return
	}
	for _, d := range m.Dependencies {
		if d == id {
			return
		}
	}
	m.Dependencies = append(m.Dependencies, id)
}
