package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".skillgate"
	configFileName = "config.yaml"
	skillsFileName = "skills.yaml"
)

// Loader handles loading and merging configuration files
type Loader struct {
	globalDir  string
	projectDir string
}

// NewLoader creates a new configuration loader
func NewLoader(projectDir string) (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	if projectDir == "" {
		projectDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return &Loader{
		globalDir:  filepath.Join(homeDir, configDirName),
		projectDir: filepath.Join(projectDir, configDirName),
	}, nil
}

// Load loads and merges configuration from all sources, project
// overriding global, both overriding defaults. Missing files are fine.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	globalCfg, err := l.loadFile(l.GlobalConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}
	if globalCfg != nil {
		cfg = mergeConfigs(cfg, globalCfg)
	}

	projectCfg, err := l.loadFile(l.ProjectConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	if projectCfg != nil {
		cfg = mergeConfigs(cfg, projectCfg)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	return l.loadFile(path)
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// mergeConfigs merges two configurations, with override taking precedence
func mergeConfigs(base, override *Config) *Config {
	result := &Config{
		Version: coalesce(override.Version, base.Version),
		Settings: Settings{
			LogLevel:    coalesce(override.Settings.LogLevel, base.Settings.LogLevel),
			LogFile:     coalesce(override.Settings.LogFile, base.Settings.LogFile),
			RemindEvery: base.Settings.RemindEvery,
			Journal:     base.Settings.Journal,
		},
	}

	if override.Settings.RemindEvery != 0 {
		result.Settings.RemindEvery = override.Settings.RemindEvery
	}
	if override.Settings.Journal.Enabled || override.Settings.Journal.Path != "" {
		result.Settings.Journal = override.Settings.Journal
	}

	return result
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// GlobalConfigPath returns the path to the global config file
func (l *Loader) GlobalConfigPath() string {
	return filepath.Join(l.globalDir, configFileName)
}

// ProjectConfigPath returns the path to the project config file
func (l *Loader) ProjectConfigPath() string {
	return filepath.Join(l.projectDir, configFileName)
}

// GlobalSkillsPath returns the path to the global skills document
func (l *Loader) GlobalSkillsPath() string {
	return filepath.Join(l.globalDir, skillsFileName)
}

// ProjectSkillsPath returns the path to the project skills document
func (l *Loader) ProjectSkillsPath() string {
	return filepath.Join(l.projectDir, skillsFileName)
}

// Exists checks if a config file exists at the given path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
