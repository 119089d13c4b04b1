package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/space"
	"github.com/spboyer/mfbench/tabular"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Validate benchmark space files",
		Long: `Validate space files before pointing benchmarks at them. Each path is
a space file or a directory; directories are scanned recursively for
benchmark dirs. Files pass a schema check first, then the semantic
checks a benchmark applies on construction.

Exits non-zero when any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

type checkJSON struct {
	Checked []checkFileJSON `json:"checked"`
	Valid   int             `json:"valid"`
	Invalid int             `json:"invalid"`
}

type checkFileJSON struct {
	Path     string   `json:"path"`
	Name     string   `json:"name,omitempty"`
	Valid    bool     `json:"valid"`
	HasTable bool     `json:"has_table"`
	Summary  string   `json:"summary,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(cmd, "text", "json")
	if err != nil {
		return err
	}

	var checked []checkFileJSON
	for _, arg := range args {
		reports, err := collectChecks(arg)
		if err != nil {
			return err
		}
		checked = append(checked, reports...)
	}

	invalid := 0
	for _, r := range checked {
		if !r.Valid {
			invalid++
		}
	}

	if format == "json" {
		if err := encodeJSON(cmd, checkJSON{
			Checked: checked,
			Valid:   len(checked) - invalid,
			Invalid: invalid,
		}); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, r := range checked {
			displayCheck(w, r)
		}
		fmt.Fprintf(w, "\n%d checked, %d valid, %d invalid\n", len(checked), len(checked)-invalid, invalid) //nolint:errcheck
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d space files invalid", invalid, len(checked))
	}
	return nil
}

// collectChecks expands one path argument into per-file reports:
// directories contribute every space file discovered below them.
func collectChecks(path string) ([]checkFileJSON, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if !info.IsDir() {
		r := checkSpaceFile(path)
		r.HasTable = hasSiblingTable(path)
		return []checkFileJSON{r}, nil
	}

	discovered, err := tabular.DiscoverDir(path)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return nil, fmt.Errorf("no space files under %s", path)
	}
	out := make([]checkFileJSON, 0, len(discovered))
	for _, d := range discovered {
		r := checkSpaceFile(d.SpacePath)
		r.HasTable = d.HasTable()
		out = append(out, r)
	}
	return out, nil
}

// checkSpaceFile runs both validation passes on one space file: the
// schema check collects every structural violation at once, then
// ParseFile applies the semantic checks.
func checkSpaceFile(path string) checkFileJSON {
	r := checkFileJSON{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		r.Errors = []string{err.Error()}
		return r
	}
	if errs := space.ValidateFileBytes(data); len(errs) > 0 {
		r.Errors = errs
		return r
	}
	f, err := space.ParseFile(data)
	if err != nil {
		r.Errors = []string{err.Error()}
		return r
	}

	r.Valid = true
	r.Name = f.Name
	fr := mfbench.FidelityRange{
		Start: mfbench.Fidelity(f.Fidelity.Start),
		Stop:  mfbench.Fidelity(f.Fidelity.Stop),
		Step:  mfbench.Fidelity(f.Fidelity.Step),
		Int:   f.Fidelity.Int,
	}
	r.Summary = fmt.Sprintf("%d parameters, %d metrics, %s %s",
		len(f.Parameters), len(f.Metrics), f.Fidelity.Name, fr)
	return r
}

func hasSiblingTable(spacePath string) bool {
	dir := filepath.Dir(spacePath)
	for _, name := range []string{tabular.TableFileName + ".zst", tabular.TableFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Display helpers.
//
// Convention:
//   Section header:  "icon path: name\n"
//   Status line:     "   icon  message\n"   (3-space indent, icon, 2-space gap)
//
// 3-state icons:  ✅ = valid   ⚠️ = valid with caveats   ❌ = invalid
// ---------------------------------------------------------------------------

func displayCheck(w writer, r checkFileJSON) {
	if !r.Valid {
		writeSection(w, "❌", r.Path, "")
		for _, e := range r.Errors {
			writeStatus(w, "❌", e)
		}
		return
	}

	writeSection(w, "✅", r.Path, r.Name)
	writeStatus(w, "✅", r.Summary)
	if r.HasTable {
		writeStatus(w, "✅", "data table present")
	} else {
		writeStatus(w, "⚠️", "no data table (space only)")
	}
}

// writeSection prints a section header: "icon title: summary\n".
//
//nolint:errcheck
func writeSection(w writer, icon, title, summary string) {
	if summary != "" {
		fmt.Fprintf(w, "%s %s: %s\n", icon, title, summary)
	} else {
		fmt.Fprintf(w, "%s %s\n", icon, title)
	}
}

// writeStatus prints a status line: "   icon  message\n".
//
//nolint:errcheck
func writeStatus(w writer, icon, message string) {
	fmt.Fprintf(w, "   %s  %s\n", icon, message)
}
