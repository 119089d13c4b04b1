package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/internal/projectconfig"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a project config file",
		Long: `Run a short guided wizard and write a ` + projectconfig.ConfigFileName + ` project
config. Commands run from the directory (or below it) pick up the
configured data directory, default benchmark, seed, and output format,
so flags only need to name what differs per run.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, force bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.ConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	cfg, err := runConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := cfg.Write(dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path) //nolint:errcheck
	return nil
}

// runConfigWizard runs an interactive huh form to collect the project
// config fields.
func runConfigWizard(in io.Reader, out io.Writer) (*projectconfig.ProjectConfig, error) {
	cfg := projectconfig.New()

	var (
		dataDir   string
		benchmark string
		seedRaw   = strconv.FormatInt(projectconfig.DefaultSeed, 10)
		format    = cfg.Defaults.Format
	)

	benchmarkOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, name := range mfbench.Names() {
		benchmarkOptions = append(benchmarkOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data directory").
				Description("Where benchmark tables and model weights live (empty to skip)").
				Placeholder("~/mfbench-data").
				Value(&dataDir),
			huh.NewSelect[string]().
				Title("Default benchmark").
				Description("Used when a command is run without a benchmark name").
				Options(benchmarkOptions...).
				Value(&benchmark),
			huh.NewInput().
				Title("Default seed").
				Description("Seed for the sampling stream").
				Value(&seedRaw).
				Validate(func(s string) error {
					if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
						return fmt.Errorf("seed must be an integer")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default output format").
				Options(
					huh.NewOption("text", "text"),
					huh.NewOption("json", "json"),
				).
				Value(&format),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	cfg.DataDir = strings.TrimSpace(dataDir)
	cfg.Benchmark = benchmark
	seed, err := strconv.ParseInt(strings.TrimSpace(seedRaw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seedRaw, err)
	}
	cfg.Defaults.Seed = &seed
	cfg.Defaults.Format = format
	return cfg, nil
}
