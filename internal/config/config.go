package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Dir is the per-repository directory holding config and snapshots.
const Dir = ".modgraph"

// EnvPrefix is the prefix of environment variables that override config keys.
// MODGRAPH_ANALYSIS_MAXPATHS overrides analysis.maxPaths.
const EnvPrefix = "MODGRAPH"

// Case sensitivity policies for path lookups
const (
	CaseAuto        = "auto"
	CaseSensitive   = "sensitive"
	CaseInsensitive = "insensitive"
)

// Config represents the complete modgraph configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Paths    PathsConfig    `json:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Modules  ModulesConfig  `json:"modules" mapstructure:"modules"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// PathsConfig controls how file paths are matched against module roots
type PathsConfig struct {
	CaseSensitivity string `json:"caseSensitivity" mapstructure:"caseSensitivity"`
}

// AnalysisConfig contains graph analysis limits
type AnalysisConfig struct {
	MaxPaths  int `json:"maxPaths" mapstructure:"maxPaths"`
	TimeoutMs int `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// ModulesConfig contains module detection configuration
type ModulesConfig struct {
	Roots     []string `json:"roots" mapstructure:"roots"`
	Ignore    []string `json:"ignore" mapstructure:"ignore"`
	Manifests []string `json:"manifests" mapstructure:"manifests"`
}

// StorageConfig contains snapshot storage configuration
type StorageConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Paths: PathsConfig{
			CaseSensitivity: CaseAuto,
		},
		Analysis: AnalysisConfig{
			MaxPaths:  5,
			TimeoutMs: 10000,
		},
		Modules: ModulesConfig{
			Roots:     []string{},
			Ignore:    []string{"node_modules", "build", ".dart_tool", "vendor", "target", ".git", Dir},
			Manifests: []string{"go.mod", "Cargo.toml", "pubspec.yaml", "package.json"},
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    filepath.Join(Dir, "modgraph.db"),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("repoRoot", d.RepoRoot)
	v.SetDefault("paths.caseSensitivity", d.Paths.CaseSensitivity)
	v.SetDefault("analysis.maxPaths", d.Analysis.MaxPaths)
	v.SetDefault("analysis.timeoutMs", d.Analysis.TimeoutMs)
	v.SetDefault("modules.roots", d.Modules.Roots)
	v.SetDefault("modules.ignore", d.Modules.Ignore)
	v.SetDefault("modules.manifests", d.Modules.Manifests)
	v.SetDefault("storage.enabled", d.Storage.Enabled)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// LoadConfig loads configuration from .modgraph/config.json, applying
// MODGRAPH_* environment overrides. A missing file yields the defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .modgraph/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}

	switch c.Paths.CaseSensitivity {
	case CaseAuto, CaseSensitive, CaseInsensitive:
	default:
		return &ConfigError{Field: "paths.caseSensitivity", Message: "must be auto, sensitive or insensitive"}
	}

	if c.Analysis.MaxPaths <= 0 {
		return &ConfigError{Field: "analysis.maxPaths", Message: "must be positive"}
	}
	if c.Analysis.TimeoutMs < 0 {
		return &ConfigError{Field: "analysis.timeoutMs", Message: "must not be negative"}
	}

	if c.Storage.Enabled && c.Storage.Path == "" {
		return &ConfigError{Field: "storage.path", Message: "required when storage is enabled"}
	}

	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "unknown level"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
