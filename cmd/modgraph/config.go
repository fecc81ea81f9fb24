package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"modgraph/internal/config"
)

var (
	configShowDiff  bool
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage modgraph configuration",
	Long:  "View and manage modgraph configuration stored in .modgraph/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults and MODGRAPH_* overrides.

Examples:
  modgraph config show
  modgraph config show --diff`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .modgraph/config.json",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Args:  cobra.NoArgs,
	Run:   runConfigEnv,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing configuration")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath"`
	UsedDefaults bool                   `json:"usedDefaults"`
	Config       map[string]interface{} `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)

	resp, err := configShow(repoRoot, cfg, configShowDiff)
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

func configShow(repoRoot string, cfg *config.Config, diffOnly bool) (*ConfigShowResponse, error) {
	configPath := filepath.Join(repoRoot, config.Dir, "config.json")
	_, statErr := os.Stat(configPath)

	configMap, err := toMap(cfg)
	if err != nil {
		return nil, err
	}
	if diffOnly {
		defaultMap, err := toMap(config.DefaultConfig())
		if err != nil {
			return nil, err
		}
		configMap = computeDiff(configMap, defaultMap)
	}

	return &ConfigShowResponse{
		ConfigPath:   configPath,
		UsedDefaults: statErr != nil,
		Config:       configMap,
	}, nil
}

func runConfigInit(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	configPath := filepath.Join(repoRoot, config.Dir, "config.json")
	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", configPath)
		os.Exit(1)
	}
	if err := config.DefaultConfig().Save(repoRoot); err != nil {
		exitWithError(err)
	}
	fmt.Printf("Wrote %s\n", configPath)
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	defaults, err := toMap(config.DefaultConfig())
	if err != nil {
		exitWithError(err)
	}
	for _, key := range flattenKeys("", defaults) {
		fmt.Printf("%s_%s\n", config.EnvPrefix, strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
}

func toMap(cfg *config.Config) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// computeDiff keeps the entries of current that differ from defaults,
// descending into nested sections.
func computeDiff(current, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	for key, value := range current {
		def, ok := defaults[key]
		if nested, isMap := value.(map[string]interface{}); isMap {
			defNested, _ := def.(map[string]interface{})
			if sub := computeDiff(nested, defNested); len(sub) > 0 {
				diff[key] = sub
			}
			continue
		}
		if !ok || !reflect.DeepEqual(value, def) {
			diff[key] = value
		}
	}
	return diff
}

// flattenKeys lists the dotted leaf keys of m in sorted order.
func flattenKeys(prefix string, m map[string]interface{}) []string {
	var keys []string
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(full, nested)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}
