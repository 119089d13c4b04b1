package mfbench

import (
	"fmt"
	"math"
	"sort"

	"github.com/spboyer/mfbench/space"
)

// ResultFrame collects results append-only and indexes them two ways:
// by fidelity and by configuration. Lookups preserve insertion order;
// the indices hold positions into one owning slice, so a result is
// stored once.
type ResultFrame struct {
	results    []Result
	byFidelity map[Fidelity][]int
	byConfig   map[string][]int
	space      *space.Space
}

// NewFrame returns an empty frame without a bound space; results are
// checked structurally but not against any parameter domain. Use
// Benchmark.Frame for a space-bound frame.
func NewFrame() *ResultFrame {
	return newFrame(nil)
}

func newFrame(s *space.Space) *ResultFrame {
	return &ResultFrame{
		byFidelity: make(map[Fidelity][]int),
		byConfig:   make(map[string][]int),
		space:      s,
	}
}

// Len returns the number of stored results.
func (f *ResultFrame) Len() int { return len(f.results) }

// validate checks one result before admission.
func (f *ResultFrame) validate(r Result) error {
	if r.Config.Len() == 0 {
		return fmt.Errorf("result has an empty config")
	}
	if len(r.Metrics) == 0 {
		return fmt.Errorf("result %s has no metrics", r.Config.Key())
	}
	if math.IsNaN(float64(r.Fidelity)) {
		return fmt.Errorf("result %s has NaN fidelity", r.Config.Key())
	}
	if f.space != nil {
		if err := f.space.Validate(r.Config.values); err != nil {
			return err
		}
	}
	return nil
}

// Add appends results to the frame. All inputs are validated before
// any is applied, so a failed Add leaves the frame unchanged.
func (f *ResultFrame) Add(results ...Result) error {
	for i := range results {
		if err := f.validate(results[i]); err != nil {
			return fmt.Errorf("adding result %d: %w", i, err)
		}
	}
	for _, r := range results {
		idx := len(f.results)
		f.results = append(f.results, r)
		f.byFidelity[r.Fidelity] = append(f.byFidelity[r.Fidelity], idx)
		f.byConfig[r.Config.Key()] = append(f.byConfig[r.Config.Key()], idx)
	}
	return nil
}

// All returns every result in insertion order.
func (f *ResultFrame) All() []Result {
	out := make([]Result, len(f.results))
	copy(out, f.results)
	return out
}

// AtFidelity returns the results recorded at the given fidelity in
// insertion order. Absent fidelities yield an empty slice.
func (f *ResultFrame) AtFidelity(fid Fidelity) []Result {
	return f.gather(f.byFidelity[fid])
}

// ForConfig returns the results recorded for the given configuration
// in insertion order. The argument is normalized like a Query input;
// absent or unparseable configurations yield an empty slice.
func (f *ResultFrame) ForConfig(cfg any) []Result {
	config, err := ConfigFromAny(cfg)
	if err != nil {
		return nil
	}
	return f.gather(f.byConfig[config.Key()])
}

func (f *ResultFrame) gather(indices []int) []Result {
	out := make([]Result, len(indices))
	for i, idx := range indices {
		out[i] = f.results[idx]
	}
	return out
}

// DeleteFidelity removes every result recorded at the given fidelity.
// Deleting a fidelity the frame holds no results at returns
// ErrKeyNotFound and leaves the frame unchanged.
func (f *ResultFrame) DeleteFidelity(fid Fidelity) error {
	doomed, ok := f.byFidelity[fid]
	if !ok || len(doomed) == 0 {
		return fmt.Errorf("fidelity %s: %w", fid, ErrKeyNotFound)
	}

	drop := make(map[int]bool, len(doomed))
	for _, idx := range doomed {
		drop[idx] = true
	}

	kept := make([]Result, 0, len(f.results)-len(doomed))
	for idx, r := range f.results {
		if !drop[idx] {
			kept = append(kept, r)
		}
	}

	f.results = kept
	f.byFidelity = make(map[Fidelity][]int, len(f.byFidelity))
	f.byConfig = make(map[string][]int, len(f.byConfig))
	for idx, r := range f.results {
		f.byFidelity[r.Fidelity] = append(f.byFidelity[r.Fidelity], idx)
		f.byConfig[r.Config.Key()] = append(f.byConfig[r.Config.Key()], idx)
	}
	return nil
}

// Fidelities returns the distinct fidelities present, ascending.
func (f *ResultFrame) Fidelities() []Fidelity {
	out := make([]Fidelity, 0, len(f.byFidelity))
	for fid := range f.byFidelity {
		out = append(out, fid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Configs returns the distinct configurations present in first-seen
// order.
func (f *ResultFrame) Configs() []Config {
	seen := make(map[string]bool, len(f.byConfig))
	var out []Config
	for _, r := range f.results {
		key := r.Config.Key()
		if !seen[key] {
			seen[key] = true
			out = append(out, r.Config)
		}
	}
	return out
}

// Best returns the stored result with the lowest (minimize) or highest
// value of the given metric. Ties keep the earliest result. The second
// return is false when no result carries the metric.
func (f *ResultFrame) Best(metric string, minimize bool) (Result, bool) {
	var best Result
	found := false
	for _, r := range f.results {
		v, ok := r.Metrics[metric]
		if !ok {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		cur := best.Metrics[metric]
		if (minimize && v < cur) || (!minimize && v > cur) {
			best = r
		}
	}
	return best, found
}

// MetricSummary describes one metric across a frame.
type MetricSummary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary computes descriptive statistics for one metric over every
// stored result that carries it.
func (f *ResultFrame) Summary(metric string) MetricSummary {
	var values []float64
	for _, r := range f.results {
		if v, ok := r.Metrics[metric]; ok {
			values = append(values, v)
		}
	}
	s := MetricSummary{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values {
		s.Mean += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean /= float64(len(values))
	for _, v := range values {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(len(values)))
	return s
}
