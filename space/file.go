package space

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk description of a benchmark: its name, fidelity
// axis, metric columns, and search space. Table-backed benchmarks ship
// one of these next to their data table.
type File struct {
	Name       string       `yaml:"name"`
	Fidelity   FidelitySpec `yaml:"fidelity"`
	Metrics    []MetricSpec `yaml:"metrics"`
	Parameters []Parameter  `yaml:"parameters"`
}

// FidelitySpec declares a benchmark's fidelity axis.
type FidelitySpec struct {
	Name  string  `yaml:"name"`
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
	Int   bool    `yaml:"int"`
}

// MetricSpec declares one metric column a benchmark reports.
type MetricSpec struct {
	Name     string `yaml:"name"`
	Minimize bool   `yaml:"minimize"`
}

// LoadFile reads and validates a space file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading space file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes a space file from raw YAML and validates it.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing space file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the file's structural invariants.
func (f *File) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("space file has no name")
	}
	fs := f.Fidelity
	if fs.Name == "" {
		return fmt.Errorf("%s: fidelity has no name", f.Name)
	}
	if fs.Step <= 0 {
		return fmt.Errorf("%s: fidelity step must be positive, got %v", f.Name, fs.Step)
	}
	if fs.Stop < fs.Start {
		return fmt.Errorf("%s: fidelity stop %v is below start %v", f.Name, fs.Stop, fs.Start)
	}
	if fs.Int {
		for _, v := range []float64{fs.Start, fs.Stop, fs.Step} {
			if v != math.Trunc(v) {
				return fmt.Errorf("%s: integer fidelity has non-integer bound %v", f.Name, v)
			}
		}
	}
	if len(f.Metrics) == 0 {
		return fmt.Errorf("%s: space file declares no metrics", f.Name)
	}
	seen := make(map[string]bool, len(f.Metrics))
	for _, m := range f.Metrics {
		if m.Name == "" {
			return fmt.Errorf("%s: metric has no name", f.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("%s: duplicate metric %q", f.Name, m.Name)
		}
		seen[m.Name] = true
	}
	if _, err := New(f.Parameters...); err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}

// Space builds the search space declared by the file.
func (f *File) Space() (*Space, error) {
	return New(f.Parameters...)
}

// MetricNames returns the declared metric names in order.
func (f *File) MetricNames() []string {
	out := make([]string, len(f.Metrics))
	for i, m := range f.Metrics {
		out[i] = m.Name
	}
	return out
}
