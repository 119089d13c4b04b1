package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/spboyer/mfbench"
)

func newQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [benchmark]",
		Short: "Evaluate one configuration at a fidelity",
		Long: `Evaluate a configuration at one fidelity, defaulting to the top of
the benchmark's fidelity range. Build the configuration from --set
flags, a --config YAML file, or both (--set wins on overlap):

  mfbench query mfh3_good --set x0=0.3 --set x1=0.6 --set x2=0.2
  mfbench query jahs --task fashion_mnist --config ./candidate.yaml --at 50

The benchmark argument may be omitted when .mfbench.yaml names one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQuery,
	}
	addBenchmarkFlags(cmd)
	addConfigFlags(cmd)
	cmd.Flags().Float64("at", 0, "Fidelity to query at (default: top of the range)")
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

type queryJSON struct {
	Benchmark string             `json:"benchmark"`
	Config    map[string]any     `json:"config"`
	Fidelity  fidelityJSON       `json:"fidelity"`
	Metrics   map[string]float64 `json:"metrics"`
}

type fidelityJSON struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(cmd, "text", "json")
	if err != nil {
		return err
	}
	values, err := configFromFlags(cmd)
	if err != nil {
		return err
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

	var opts []mfbench.QueryOption
	if cmd.Flags().Changed("at") {
		at, _ := cmd.Flags().GetFloat64("at")
		opts = append(opts, mfbench.At(mfbench.Fidelity(at)))
	}

	r, err := b.Query(values, opts...)
	if err != nil {
		return err
	}

	if format == "json" {
		return encodeJSON(cmd, queryJSON{
			Benchmark: b.Name(),
			Config:    r.Config.ToMap(),
			Fidelity:  fidelityJSON{Name: b.FidelityName(), Value: float64(r.Fidelity)},
			Metrics:   r.Metrics,
		})
	}

	w := cmd.OutOrStdout()
	labelWidth := max(len("benchmark"), len(b.FidelityName()))
	fmt.Fprintf(w, "%s  %s\n", padRight("benchmark", labelWidth), b.Name())           //nolint:errcheck
	fmt.Fprintf(w, "%s  %s\n", padRight("config", labelWidth), r.Config.Key())        //nolint:errcheck
	fmt.Fprintf(w, "%s  %s\n\n", padRight(b.FidelityName(), labelWidth), r.Fidelity)  //nolint:errcheck
	printMetricTable(w, r)
	return nil
}

func printMetricTable(w writer, r mfbench.Result) {
	width := 0
	for _, name := range r.MetricNames() {
		if n := runewidth.StringWidth(name); n > width {
			width = n
		}
	}
	for _, name := range r.MetricNames() {
		fmt.Fprintf(w, "%s  %g\n", padRight(name, width), r.Metrics[name]) //nolint:errcheck
	}
}
