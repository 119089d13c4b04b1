// Package projectconfig provides the ProjectConfig struct and loader
// for .mfbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spboyer/mfbench/internal/utils"
)

// ConfigFileName is the project config file discovered by walking up
// from the working directory.
const ConfigFileName = ".mfbench.yaml"

// Default values for project configuration. These are the single
// source of truth — New() references them and no other code should
// duplicate them.
const (
	DefaultSeed    = int64(1)
	DefaultFormat  = "text"
	DefaultWorkers = 4
	DefaultSamples = 1
)

// DefaultsConfig holds default command parameters.
type DefaultsConfig struct {
	Seed    *int64 `yaml:"seed,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	Samples int    `yaml:"samples,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from
// .mfbench.yaml.
type ProjectConfig struct {
	// DataDir locates benchmark tables and model weights. A leading ~
	// expands to the user's home directory.
	DataDir string `yaml:"data_dir,omitempty"`
	// Benchmark preselects a benchmark for commands that take one.
	Benchmark string `yaml:"benchmark,omitempty"`
	// Task preselects a task of a multi-task benchmark.
	Task     string         `yaml:"task,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Defaults: DefaultsConfig{
			Seed:    int64Ptr(DefaultSeed),
			Format:  DefaultFormat,
			Workers: DefaultWorkers,
			Samples: DefaultSamples,
		},
	}
}

// Load finds .mfbench.yaml by walking up from startDir (max 10
// levels), unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error. Real
// I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)

	if cfg.DataDir != "" {
		expanded, err := utils.ExpandHome(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		cfg.DataDir = expanded
	}
	return cfg, nil
}

// Write saves the config to dir/.mfbench.yaml.
func (c *ProjectConfig) Write(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ConfigFileName, err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// findConfigFile walks up from dir looking for .mfbench.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
// Propagates real I/O errors (e.g. permission denied) instead of
// silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.Benchmark != "" {
		dst.Benchmark = src.Benchmark
	}
	if src.Task != "" {
		dst.Task = src.Task
	}

	if src.Defaults.Seed != nil {
		dst.Defaults.Seed = src.Defaults.Seed
	}
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Samples != 0 {
		dst.Defaults.Samples = src.Defaults.Samples
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
