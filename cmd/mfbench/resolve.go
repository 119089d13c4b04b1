package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/internal/projectconfig"
	"github.com/spboyer/mfbench/internal/spinner"
)

// addBenchmarkFlags registers the flags shared by every command that
// constructs a benchmark. Unset flags fall back to .mfbench.yaml.
func addBenchmarkFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", projectconfig.DefaultSeed, "Seed for the sampling stream")
	cmd.Flags().String("task", "", "Task for multi-task benchmarks")
	cmd.Flags().String("data-dir", "", "Directory holding benchmark tables and model weights")
}

// addConfigFlags registers the flags that assemble a configuration for
// query and trajectory.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Set a hyperparameter, e.g. --set lr=0.01 (repeatable)")
	cmd.Flags().String("config", "", "YAML file holding the configuration")
}

func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// benchmarkName resolves the positional benchmark argument, falling
// back to the project config's benchmark when the argument is omitted.
func benchmarkName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := loadProjectConfig()
	if err != nil {
		return "", err
	}
	if cfg.Benchmark == "" {
		return "", fmt.Errorf("no benchmark named: pass one or set benchmark in %s", projectconfig.ConfigFileName)
	}
	return cfg.Benchmark, nil
}

// resolveBenchmark constructs the named benchmark. Flag values win;
// unset flags fall back to project config defaults.
func resolveBenchmark(cmd *cobra.Command, name string) (mfbench.Benchmark, error) {
	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, err
	}

	seed, _ := cmd.Flags().GetInt64("seed")
	if !cmd.Flags().Changed("seed") && cfg.Defaults.Seed != nil {
		seed = *cfg.Defaults.Seed
	}
	task, _ := cmd.Flags().GetString("task")
	if task == "" {
		task = cfg.Task
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	opts := []mfbench.GetOption{mfbench.WithSeed(seed)}
	if task != "" {
		opts = append(opts, mfbench.WithTask(task))
	}
	if dataDir != "" {
		opts = append(opts, mfbench.WithDataDir(dataDir))
	}
	return mfbench.Get(name, opts...)
}

// resolveDataDir returns the data directory from the flag or project
// config. Empty when neither is set.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir != "" {
		return dataDir, nil
	}
	cfg, err := loadProjectConfig()
	if err != nil {
		return "", err
	}
	return cfg.DataDir, nil
}

// resolveFormat validates the output format, falling back to the
// project config default when the flag is unset and the configured
// format applies to this command.
func resolveFormat(cmd *cobra.Command, allowed ...string) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if !cmd.Flags().Changed("format") {
		if cfg, err := loadProjectConfig(); err == nil && slices.Contains(allowed, cfg.Defaults.Format) {
			format = cfg.Defaults.Format
		}
	}
	if !slices.Contains(allowed, format) {
		return "", fmt.Errorf("invalid format %q: expected %s", format, strings.Join(allowed, " | "))
	}
	return format, nil
}

// loadBenchmark fronts the benchmark's data load, animating a spinner
// when stderr is an interactive terminal.
func loadBenchmark(b mfbench.Benchmark) error {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		s := spinner.Start(os.Stderr, fmt.Sprintf("loading %s", b.Name()))
		defer s.Stop()
	}
	return b.Load()
}

// configFromFlags assembles the configuration from --config and --set.
// --set values parse as YAML scalars so numbers stay numbers and bare
// words become strings.
func configFromFlags(cmd *cobra.Command) (map[string]any, error) {
	values := map[string]any{}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || name == "" || raw == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", kv)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		values[name] = v
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no configuration given: use --set name=value or --config file")
	}
	return values, nil
}
