// Package config handles loading, defaulting and validating the c3i settings file
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/c3i/c3i/pkg/types"
)

// DefaultConfigFile is used when no --config flag is given
const DefaultConfigFile = "c3i.json"

// EnvPrefix prefixes environment overrides, e.g. C3I_GITHUB_TOKEN
const EnvPrefix = "C3I"

// Display holds the presentation fields of a configuration that overrides may replace
type Display struct {
	Desc  string `json:"desc,omitempty" yaml:"desc,omitempty" mapstructure:"desc"`
	PR    string `json:"pr,omitempty" yaml:"pr,omitempty" mapstructure:"pr"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty" mapstructure:"notes"`
}

// Override replaces display fields of the named configuration in the report
type Override struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	Display `yaml:",inline" mapstructure:",squash"`
}

// Config is the settings file
type Config struct {
	Path           string                `json:"path" yaml:"path" mapstructure:"path"`
	Output         string                `json:"output" yaml:"output" mapstructure:"output"`
	HTMLOut        string                `json:"html-out" yaml:"html-out" mapstructure:"html-out"`
	HTMLURL        string                `json:"html-url" yaml:"html-url" mapstructure:"html-url"`
	HTMLResources  map[string]string     `json:"html-resources" yaml:"html-resources" mapstructure:"html-resources"`
	TemplateDir    string                `json:"template-dir" yaml:"template-dir" mapstructure:"template-dir"`
	Cache          string                `json:"cache" yaml:"cache" mapstructure:"cache"`
	Upstream       string                `json:"upstream" yaml:"upstream" mapstructure:"upstream"`
	GitHubRepo     string                `json:"github-repo" yaml:"github-repo" mapstructure:"github-repo"`
	GitHubAPI      string                `json:"github-api" yaml:"github-api" mapstructure:"github-api"`
	GitHubToken    string                `json:"github-token,omitempty" yaml:"github-token,omitempty" mapstructure:"github-token"`
	Mainline       string                `json:"mainline" yaml:"mainline" mapstructure:"mainline"`
	BuildCommand   string                `json:"build-command" yaml:"build-command" mapstructure:"build-command"`
	ArtifactDir    string                `json:"artifact-dir" yaml:"artifact-dir" mapstructure:"artifact-dir"`
	ArtifactName   string                `json:"artifact-name" yaml:"artifact-name" mapstructure:"artifact-name"`
	Group          string                `json:"group" yaml:"group" mapstructure:"group"`
	BundledLibrary string                `json:"bundled-library" yaml:"bundled-library" mapstructure:"bundled-library"`
	Notifications  bool                  `json:"notifications" yaml:"notifications" mapstructure:"notifications"`
	Additional     []types.Configuration `json:"additional" yaml:"additional" mapstructure:"additional"`
	Overrides      []Override            `json:"overrides" yaml:"overrides" mapstructure:"overrides"`
	Recommended    []Override            `json:"recommended" yaml:"recommended" mapstructure:"recommended"`
}

// MainlineBranch is the local branch name of the mainline (origin/master -> master)
func (c *Config) MainlineBranch() string {
	if _, branch, ok := strings.Cut(c.Mainline, "/"); ok {
		return branch
	}
	return c.Mainline
}

// IsRecommended reports whether the named configuration is in the recommended list
func (c *Config) IsRecommended(name string) bool {
	for _, r := range c.Recommended {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Configurations returns the built-in default configuration, the static
// additional ones and one per pull request, dropping repeated names.
func (c *Config) Configurations(prs []types.PullRequest) []types.Configuration {
	all := []types.Configuration{{
		Name:     types.DefaultConfigurationName,
		Desc:     c.ArtifactName,
		Branches: []string{},
	}}
	all = append(all, c.Additional...)
	for _, pr := range prs {
		all = append(all, pr.Configuration())
	}

	seen := make(map[string]bool, len(all))
	out := make([]types.Configuration, 0, len(all))
	for _, cfg := range all {
		if seen[cfg.Name] {
			continue
		}
		seen[cfg.Name] = true
		out = append(out, cfg)
	}
	return out
}

// Branches returns every branch the given configurations need, mainline included
func (c *Config) Branches(configurations []types.Configuration) []string {
	seen := map[string]bool{c.Mainline: true}
	branches := []string{c.Mainline}
	for _, cfg := range configurations {
		for _, branch := range cfg.Branches {
			if !seen[branch] {
				seen[branch] = true
				branches = append(branches, branch)
			}
		}
	}
	return branches
}

// Manager handles configuration operations
type Manager struct {
	workDir string
}

// NewManager creates a configuration manager resolving relative paths against the working directory
func NewManager() *Manager {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Manager{workDir: wd}
}

// NewManagerAt creates a configuration manager resolving relative paths against dir
func NewManagerAt(dir string) *Manager {
	return &Manager{workDir: dir}
}

// LoadConfig reads the settings file, writing the defaults first when it does not exist
func (m *Manager) LoadConfig(path string) (*Config, error) {
	path = m.resolve(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := m.SaveConfig(path, m.GetDefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v, m.GetDefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := m.ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	m.absolutize(&cfg)
	return &cfg, nil
}

// SaveConfig writes cfg as JSON or YAML depending on the file extension
func (m *Manager) SaveConfig(path string, cfg *Config) error {
	var data []byte
	var err error
	if configType(path) == "yaml" {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("missing repository path")
	}
	if cfg.Cache == "" {
		return fmt.Errorf("missing cache path")
	}
	if cfg.Mainline == "" || !strings.Contains(cfg.Mainline, "/") {
		return fmt.Errorf("mainline must be a remote branch such as origin/master, got %q", cfg.Mainline)
	}
	if cfg.BuildCommand == "" {
		return fmt.Errorf("missing build command")
	}
	if cfg.ArtifactName == "" {
		return fmt.Errorf("missing artifact name")
	}
	if cfg.Group == "" {
		return fmt.Errorf("missing group")
	}

	names := map[string]bool{types.DefaultConfigurationName: true}
	for i, additional := range cfg.Additional {
		if err := additional.Validate(); err != nil {
			return fmt.Errorf("additional configuration %d: %w", i, err)
		}
		if names[additional.Name] {
			return fmt.Errorf("duplicate configuration name: %s", additional.Name)
		}
		names[additional.Name] = true
	}

	for i, override := range cfg.Overrides {
		if override.Name == "" {
			return fmt.Errorf("override %d: missing name", i)
		}
	}

	for i, recommended := range cfg.Recommended {
		if recommended.Name == "" {
			return fmt.Errorf("recommended entry %d: missing name", i)
		}
	}

	return nil
}

// GetDefaultConfig returns the configuration written when no settings file exists
func (m *Manager) GetDefaultConfig() *Config {
	return &Config{
		Path:           "ComputerCraft",
		Output:         "out",
		HTMLOut:        "index.html",
		HTMLURL:        "out/",
		HTMLResources:  map[string]string{},
		TemplateDir:    "template",
		Cache:          "c3i-cache.json",
		Upstream:       "https://github.com/dan200/ComputerCraft.git",
		GitHubRepo:     "dan200/computercraft",
		GitHubAPI:      "https://api.github.com",
		Mainline:       "origin/master",
		BuildCommand:   "./gradlew -q clean build",
		ArtifactDir:    "build/libs",
		ArtifactName:   "ComputerCraft",
		Group:          "dan200.computercraft",
		BundledLibrary: "libs/luaj-jse-2.0.3.jar",
		Additional:     []types.Configuration{},
		Overrides:      []Override{},
		Recommended:    []Override{{Name: types.DefaultConfigurationName}},
	}
}

// Private methods

func (m *Manager) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.workDir, path)
}

func (m *Manager) absolutize(cfg *Config) {
	cfg.Path = m.resolve(cfg.Path)
	cfg.Cache = m.resolve(cfg.Cache)
	cfg.Output = m.resolve(cfg.Output)
	cfg.HTMLOut = m.resolve(cfg.HTMLOut)
	cfg.TemplateDir = m.resolve(cfg.TemplateDir)

	resources := make(map[string]string, len(cfg.HTMLResources))
	for name, path := range cfg.HTMLResources {
		resources[name] = m.resolve(path)
	}
	cfg.HTMLResources = resources
}

// decodeHook keeps viper's default hooks and lets a bare name stand for an
// Override, so "recommended": ["default"] and [{"name": "default"}] both load
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		nameToOverrideHook,
	)
}

func nameToOverrideHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Override{}) {
		return data, nil
	}
	return Override{Name: data.(string)}, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// setDefaults registers scalar defaults so that env overrides apply to keys
// missing from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("path", cfg.Path)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("html-out", cfg.HTMLOut)
	v.SetDefault("html-url", cfg.HTMLURL)
	v.SetDefault("template-dir", cfg.TemplateDir)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("upstream", cfg.Upstream)
	v.SetDefault("github-repo", cfg.GitHubRepo)
	v.SetDefault("github-api", cfg.GitHubAPI)
	v.SetDefault("github-token", "")
	v.SetDefault("mainline", cfg.Mainline)
	v.SetDefault("build-command", cfg.BuildCommand)
	v.SetDefault("artifact-dir", cfg.ArtifactDir)
	v.SetDefault("artifact-name", cfg.ArtifactName)
	v.SetDefault("group", cfg.Group)
	v.SetDefault("bundled-library", cfg.BundledLibrary)
	v.SetDefault("notifications", cfg.Notifications)
	v.SetDefault("recommended", []string{types.DefaultConfigurationName})
}
