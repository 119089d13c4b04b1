package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/internal/projectconfig"
)

func newSampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [benchmark]",
		Short: "Draw configurations from a benchmark",
		Long: `Draw configurations from a benchmark's search space, or from its
recorded configurations for table-backed benchmarks. Draws are
deterministic in the seed.

The benchmark argument may be omitted when .mfbench.yaml names one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSample,
	}
	addBenchmarkFlags(cmd)
	cmd.Flags().IntP("count", "n", projectconfig.DefaultSamples, "Number of configurations to draw")
	cmd.Flags().String("format", "text", "Output format: text | json | yaml")
	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(cmd, "text", "json", "yaml")
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	if !cmd.Flags().Changed("count") {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		count = cfg.Defaults.Samples
	}

	name, err := benchmarkName(args)
	if err != nil {
		return err
	}
	b, err := resolveBenchmark(cmd, name)
	if err != nil {
		return err
	}
	if err := loadBenchmark(b); err != nil {
		return err
	}

	configs, err := b.Sample(count)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return encodeJSON(cmd, configMaps(configs))
	case "yaml":
		data, err := yaml.Marshal(configMaps(configs))
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		for _, c := range configs {
			fmt.Fprintln(cmd.OutOrStdout(), c.String()) //nolint:errcheck
		}
		return nil
	}
}

func configMaps(configs []mfbench.Config) []map[string]any {
	out := make([]map[string]any, len(configs))
	for i, c := range configs {
		out[i] = c.ToMap()
	}
	return out
}

// encodeJSON writes v as indented JSON, buffered so a failed encode
// produces no partial output.
func encodeJSON(cmd *cobra.Command, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
