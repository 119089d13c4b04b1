package main

import (
	"encoding/csv"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spboyer/mfbench"
)

func newTrajectoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trajectory [benchmark]",
		Short: "Sweep a configuration across the fidelity range",
		Long: `Evaluate a configuration at every fidelity of the benchmark's range,
ascending. --from, --to, and --step narrow the sweep; each defaults
to the range's own value. The default output is CSV, one row per
fidelity, ready for plotting:

  mfbench trajectory mfh3_good --set x0=0.3 --set x1=0.6 --set x2=0.2 > curve.csv

The benchmark argument may be omitted when .mfbench.yaml names one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTrajectory,
	}
	addBenchmarkFlags(cmd)
	addConfigFlags(cmd)
	cmd.Flags().Float64("from", 0, "First fidelity of the sweep")
	cmd.Flags().Float64("to", 0, "Last fidelity of the sweep")
	cmd.Flags().Float64("step", 0, "Stride between fidelities")
	cmd.Flags().String("format", "csv", "Output format: csv | json")
	return cmd
}

type trajectoryJSON struct {
	Benchmark string                `json:"benchmark"`
	Config    map[string]any        `json:"config"`
	Fidelity  string                `json:"fidelity"`
	Results   []trajectoryPointJSON `json:"results"`
}

type trajectoryPointJSON struct {
	Fidelity float64            `json:"fidelity"`
	Metrics  map[string]float64 `json:"metrics"`
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(cmd, "csv", "json")
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

	var opts []mfbench.TrajectoryOption
	if cmd.Flags().Changed("from") {
		f, _ := cmd.Flags().GetFloat64("from")
		opts = append(opts, mfbench.From(mfbench.Fidelity(f)))
	}
	if cmd.Flags().Changed("to") {
		f, _ := cmd.Flags().GetFloat64("to")
		opts = append(opts, mfbench.To(mfbench.Fidelity(f)))
	}
	if cmd.Flags().Changed("step") {
		f, _ := cmd.Flags().GetFloat64("step")
		opts = append(opts, mfbench.Step(mfbench.Fidelity(f)))
	}

	results, err := b.Trajectory(values, opts...)
	if err != nil {
		return err
	}

	if format == "json" {
		out := trajectoryJSON{
			Benchmark: b.Name(),
			Config:    values,
			Fidelity:  b.FidelityName(),
			Results:   make([]trajectoryPointJSON, 0, len(results)),
		}
		if len(results) > 0 {
			out.Config = results[0].Config.ToMap()
		}
		for _, r := range results {
			out.Results = append(out.Results, trajectoryPointJSON{
				Fidelity: float64(r.Fidelity),
				Metrics:  r.Metrics,
			})
		}
		return encodeJSON(cmd, out)
	}

	metrics := b.Metrics()
	w := csv.NewWriter(cmd.OutOrStdout())
	header := append([]string{b.FidelityName()}, metrics...)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, r := range results {
		row[0] = r.Fidelity.String()
		for i, name := range metrics {
			row[i+1] = strconv.FormatFloat(r.Metrics[name], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
