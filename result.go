package mfbench

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the outcome of evaluating one configuration at one
// fidelity.
type Result struct {
	Config   Config
	Fidelity Fidelity
	Metrics  map[string]float64
}

// Metric returns one named metric value.
func (r Result) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// MetricNames returns the metric names in sorted order.
func (r Result) MetricNames() []string {
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two results carry the same config, fidelity,
// and bit-identical metric values. Benchmarks promise this for repeat
// queries with equal inputs.
func (r Result) Equal(o Result) bool {
	if !r.Config.Equal(o.Config) || r.Fidelity != o.Fidelity {
		return false
	}
	if len(r.Metrics) != len(o.Metrics) {
		return false
	}
	for name, v := range r.Metrics {
		ov, ok := o.Metrics[name]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the result for logs and debugging.
func (r Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s @ %s:", r.Config.Key(), r.Fidelity)
	for _, name := range r.MetricNames() {
		fmt.Fprintf(&sb, " %s=%g", name, r.Metrics[name])
	}
	return sb.String()
}
