package surrogate

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spboyer/mfbench/space"
)

// File names every surrogate benchmark directory carries: the space
// file and the model weights.
const (
	SpaceFileName = "space.yaml"
	ModelFileName = "model.json"
)

// metricHead is one output of the predictor: a bias plus one weight
// per basis center.
type metricHead struct {
	Name    string    `json:"name"`
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

// model is the on-disk RBF predictor:
//
//	phi_j(x) = exp(-|x - c_j|^2 / (2 * width_j^2))
//	y_m(x)   = bias_m + sum_j weights_m[j] * phi_j(x)
//
// Features lists the input vector layout; each entry names a space
// parameter or the fidelity axis.
type model struct {
	Name     string       `json:"name"`
	Features []string     `json:"features"`
	Centers  [][]float64  `json:"centers"`
	Widths   []float64    `json:"widths"`
	Metrics  []metricHead `json:"metrics"`
}

func loadModel(path string) (*model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	return &m, nil
}

// validate checks the model against the space file it predicts for:
// the feature layout must cover every parameter plus the fidelity
// axis, and the output heads must match the declared metrics.
func (m *model) validate(f *space.File, sp *space.Space) error {
	if m.Name != f.Name {
		return fmt.Errorf("model is for %q, space file for %q", m.Name, f.Name)
	}

	seen := make(map[string]bool, len(m.Features))
	for _, feat := range m.Features {
		if seen[feat] {
			return fmt.Errorf("duplicate feature %q", feat)
		}
		seen[feat] = true
		if feat == f.Fidelity.Name {
			continue
		}
		p, ok := sp.Get(feat)
		if !ok {
			return fmt.Errorf("feature %q is not a space parameter", feat)
		}
		if p.Type != space.TypeFloat && p.Type != space.TypeInt {
			return fmt.Errorf("feature %q has non-numeric type %q", feat, p.Type)
		}
	}
	if !seen[f.Fidelity.Name] {
		return fmt.Errorf("features omit the fidelity axis %q", f.Fidelity.Name)
	}
	for _, name := range sp.Names() {
		if !seen[name] {
			return fmt.Errorf("features omit parameter %q", name)
		}
	}

	k := len(m.Centers)
	if k == 0 {
		return fmt.Errorf("model has no basis centers")
	}
	for i, c := range m.Centers {
		if len(c) != len(m.Features) {
			return fmt.Errorf("center %d has %d values, want %d", i, len(c), len(m.Features))
		}
	}
	if len(m.Widths) != k {
		return fmt.Errorf("model has %d widths for %d centers", len(m.Widths), k)
	}
	for i, w := range m.Widths {
		if w <= 0 {
			return fmt.Errorf("width %d must be positive, got %v", i, w)
		}
	}

	declared := f.MetricNames()
	if len(m.Metrics) != len(declared) {
		return fmt.Errorf("model predicts %d metrics, space file declares %d", len(m.Metrics), len(declared))
	}
	heads := make(map[string]bool, len(m.Metrics))
	for _, h := range m.Metrics {
		if heads[h.Name] {
			return fmt.Errorf("duplicate metric head %q", h.Name)
		}
		heads[h.Name] = true
		if !slices.Contains(declared, h.Name) {
			return fmt.Errorf("model predicts undeclared metric %q", h.Name)
		}
		if len(h.Weights) != k {
			return fmt.Errorf("metric %q has %d weights for %d centers", h.Name, len(h.Weights), k)
		}
	}
	return nil
}

// headsInOrder returns the output heads reordered to the space file's
// metric order.
func (m *model) headsInOrder(f *space.File) []metricHead {
	byName := make(map[string]metricHead, len(m.Metrics))
	for _, h := range m.Metrics {
		byName[h.Name] = h
	}
	out := make([]metricHead, 0, len(m.Metrics))
	for _, name := range f.MetricNames() {
		out = append(out, byName[name])
	}
	return out
}
