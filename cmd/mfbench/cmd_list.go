package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/tabular"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available benchmarks",
		Long: `List every registered benchmark, one line per task.

With --data-dir (or data_dir in .mfbench.yaml), also scans the data
directory and lists discovered benchmark directories, marking whether
each one has its data table and is loadable.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().String("data-dir", "", "Data directory to scan for benchmark dirs")
	return cmd
}

// --- JSON output structs ---

type listJSON struct {
	Benchmarks []mfbench.Descriptor `json:"benchmarks"`
	Discovered []discoveredJSON     `json:"discovered,omitempty"`
}

type discoveredJSON struct {
	Name     string `json:"name"`
	Dir      string `json:"dir"`
	Loadable bool   `json:"loadable"`
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(cmd, "text", "json")
	if err != nil {
		return err
	}

	descriptors := mfbench.Available()

	dataDir, err := resolveDataDir(cmd)
	if err != nil {
		return err
	}
	var discovered []tabular.Discovered
	if dataDir != "" {
		discovered, err = tabular.DiscoverDir(dataDir)
		if err != nil {
			return err
		}
	}

	if format == "json" {
		return outputListJSON(cmd, descriptors, discovered)
	}

	w := cmd.OutOrStdout()
	printBenchmarkTable(w, descriptors)
	if dataDir != "" {
		fmt.Fprintf(w, "\nDiscovered in %s:\n", dataDir) //nolint:errcheck
		printDiscoveredTable(w, discovered)
	}
	return nil
}

func outputListJSON(cmd *cobra.Command, descriptors []mfbench.Descriptor, discovered []tabular.Discovered) error {
	out := listJSON{Benchmarks: descriptors}
	for _, d := range discovered {
		out.Discovered = append(out.Discovered, discoveredJSON{
			Name:     d.Name,
			Dir:      d.Dir,
			Loadable: d.HasTable(),
		})
	}
	return encodeJSON(cmd, out)
}

func printBenchmarkTable(w writer, descriptors []mfbench.Descriptor) {
	nameWidth := runewidth.StringWidth("NAME")
	taskWidth := runewidth.StringWidth("TASK")
	for _, d := range descriptors {
		if n := runewidth.StringWidth(displayName(d)); n > nameWidth {
			nameWidth = n
		}
		if n := runewidth.StringWidth(d.Task); n > taskWidth {
			taskWidth = n
		}
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight("NAME", nameWidth),
		padRight("TASK", taskWidth),
		"DATA",
		"DESCRIPTION")
	for _, d := range descriptors {
		data := "-"
		if d.NeedsData {
			data = "yes"
		}
		task := d.Task
		if task == "" {
			task = "-"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
			padRight(displayName(d), nameWidth),
			padRight(task, taskWidth),
			padRight(data, len("DATA")),
			d.Description)
	}
}

// displayName renders "name (alias)" when the entry has one.
func displayName(d mfbench.Descriptor) string {
	if d.Alias != "" {
		return fmt.Sprintf("%s (%s)", d.Name, d.Alias)
	}
	return d.Name
}

func printDiscoveredTable(w writer, discovered []tabular.Discovered) {
	if len(discovered) == 0 {
		fmt.Fprintln(w, "  (no benchmark directories found)") //nolint:errcheck
		return
	}
	nameWidth := 0
	for _, d := range discovered {
		if n := runewidth.StringWidth(d.Name); n > nameWidth {
			nameWidth = n
		}
	}
	for _, d := range discovered {
		state := "ok"
		if !d.HasTable() {
			state = "missing table"
		}
		fmt.Fprintf(w, "  %s  %s\n", padRight(d.Name, nameWidth), state) //nolint:errcheck
	}
}

type writer = interface{ Write([]byte) (int, error) }

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
