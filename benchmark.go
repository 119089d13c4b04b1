package mfbench

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/spboyer/mfbench/space"
)

// Benchmark is the uniform contract over benchmark families: sample
// configurations, query outcomes at a fidelity, sweep trajectories.
// Implementations are safe for concurrent Query and Trajectory calls
// once loaded; Sample advances shared RNG state and is not.
type Benchmark interface {
	// Name returns the registry name.
	Name() string
	// Space returns the search space configurations are drawn from.
	Space() *space.Space
	// FidelityName names the fidelity axis, e.g. "epoch".
	FidelityName() string
	// FidelityRange returns the queryable fidelity axis.
	FidelityRange() FidelityRange
	// Metrics returns the metric names every result carries.
	Metrics() []string
	// Exact reports whether Trajectory results are bit-identical to
	// per-fidelity Query results. Surrogate-backed families that
	// predict trajectories in bulk report false.
	Exact() bool

	// Load brings heavyweight state (tables, model weights) into
	// memory. It is idempotent; Query and Trajectory load on first
	// use, so calling Load is only an opportunity to front the cost.
	Load() error
	// Sample draws n configurations from the search space using the
	// benchmark's seeded stream. Sampled configurations always
	// validate.
	Sample(n int) ([]Config, error)
	// Query evaluates a configuration at one fidelity, defaulting to
	// the top of the range. cfg may be a Config, a map of values, or
	// a struct with mapstructure tags.
	Query(cfg any, opts ...QueryOption) (Result, error)
	// Trajectory evaluates a configuration at every fidelity of the
	// sweep range, ascending.
	Trajectory(cfg any, opts ...TrajectoryOption) ([]Result, error)
	// Frame returns an empty ResultFrame bound to this benchmark's
	// space.
	Frame() *ResultFrame
}

// QueryOption adjusts a single Query call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	at *Fidelity
}

// At queries at the given fidelity instead of the top of the range.
func At(f Fidelity) QueryOption {
	return func(o *queryOptions) { o.at = &f }
}

// TrajectoryOption adjusts the sweep range of a Trajectory call.
type TrajectoryOption func(*trajectoryOptions)

type trajectoryOptions struct {
	frm, to, step *Fidelity
}

// From starts the sweep at the given fidelity.
func From(f Fidelity) TrajectoryOption {
	return func(o *trajectoryOptions) { o.frm = &f }
}

// To ends the sweep at the given fidelity.
func To(f Fidelity) TrajectoryOption {
	return func(o *trajectoryOptions) { o.to = &f }
}

// Step sweeps with the given stride instead of the range's own.
func Step(f Fidelity) TrajectoryOption {
	return func(o *trajectoryOptions) { o.step = &f }
}

// Definition wires a benchmark family's kernel functions into the
// shared contract machinery.
type Definition struct {
	// Name is the registry name.
	Name string
	// Space is the search space. Required.
	Space *space.Space
	// FidelityName names the fidelity axis. Required.
	FidelityName string
	// Range is the fidelity axis. Required.
	Range FidelityRange
	// Metrics are the metric names every result carries. Required.
	Metrics []string
	// Seed initializes the sampling stream.
	Seed int64
	// Exact declares trajectory/query bit-equality. See
	// Benchmark.Exact.
	Exact bool

	// Load brings heavyweight state into memory. Optional.
	Load func() error
	// Query evaluates one already-validated configuration at one
	// in-range fidelity. Required. Must be deterministic in its
	// inputs and safe for concurrent use once Load has run.
	Query func(Config, Fidelity) (Result, error)
	// Sample replaces space sampling for families that draw from
	// recorded configurations instead. Optional.
	Sample func(rng *rand.Rand, n int) ([]Config, error)
}

// Base implements the Benchmark contract around a Definition. Families
// embed *Base and keep only their kernel logic.
type Base struct {
	def Definition
	rng *rand.Rand

	loadOnce sync.Once
	loadErr  error
	loaded   bool
}

// NewBase validates a definition and builds the contract machinery
// around it.
func NewBase(def Definition) (*Base, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("benchmark definition has no name")
	}
	if def.Space == nil {
		return nil, fmt.Errorf("benchmark %q has no space", def.Name)
	}
	if def.FidelityName == "" {
		return nil, fmt.Errorf("benchmark %q has no fidelity name", def.Name)
	}
	if err := def.Range.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", def.Name, err)
	}
	if len(def.Metrics) == 0 {
		return nil, fmt.Errorf("benchmark %q declares no metrics", def.Name)
	}
	if def.Query == nil {
		return nil, fmt.Errorf("benchmark %q has no query kernel", def.Name)
	}
	return &Base{
		def: def,
		rng: rand.New(rand.NewSource(def.Seed)),
	}, nil
}

// Name returns the registry name.
func (b *Base) Name() string { return b.def.Name }

// Space returns the search space.
func (b *Base) Space() *space.Space { return b.def.Space }

// FidelityName names the fidelity axis.
func (b *Base) FidelityName() string { return b.def.FidelityName }

// FidelityRange returns the fidelity axis.
func (b *Base) FidelityRange() FidelityRange { return b.def.Range }

// Metrics returns the metric names every result carries.
func (b *Base) Metrics() []string {
	out := make([]string, len(b.def.Metrics))
	copy(out, b.def.Metrics)
	return out
}

// Exact reports trajectory/query bit-equality.
func (b *Base) Exact() bool { return b.def.Exact }

// Loaded reports whether heavyweight state is in memory.
func (b *Base) Loaded() bool { return b.loaded }

// Load loads the family's data exactly once. Subsequent calls return
// the first outcome.
func (b *Base) Load() error { return b.ensureLoaded() }

func (b *Base) ensureLoaded() error {
	b.loadOnce.Do(func() {
		if b.def.Load != nil {
			slog.Debug("loading benchmark data", "benchmark", b.def.Name)
			b.loadErr = b.def.Load()
		}
		if b.loadErr == nil {
			b.loaded = true
		}
	})
	return b.loadErr
}

// Sample draws n configurations. Families without a custom sampler
// draw from the space; custom samplers load first so they can draw
// from recorded data.
func (b *Base) Sample(n int) ([]Config, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	if b.def.Sample != nil {
		if err := b.ensureLoaded(); err != nil {
			return nil, err
		}
		return b.def.Sample(b.rng, n)
	}
	out := make([]Config, n)
	for i := range out {
		out[i] = NewConfig(b.def.Space.Sample(b.rng))
	}
	return out, nil
}

// Normalize turns a query input into a validated Config. Families that
// shadow Trajectory with a bulk path use it to match Query's input
// handling.
func (b *Base) Normalize(cfg any) (Config, error) {
	config, err := ConfigFromAny(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := b.def.Space.Validate(config.values); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Query evaluates a configuration at one fidelity, defaulting to the
// top of the range.
func (b *Base) Query(cfg any, opts ...QueryOption) (Result, error) {
	if err := b.ensureLoaded(); err != nil {
		return Result{}, err
	}
	config, err := b.Normalize(cfg)
	if err != nil {
		return Result{}, err
	}

	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	at := b.def.Range.Stop
	if o.at != nil {
		at = *o.at
	}
	if !b.def.Range.Contains(at) {
		return Result{}, &OutOfRangeError{Fidelity: at, Range: b.def.Range}
	}

	return b.def.Query(config, at)
}

// Trajectory evaluates a configuration at every fidelity of the sweep
// range by running the query kernel per fidelity, so results match
// per-fidelity queries exactly. Families with a cheaper bulk path
// shadow this method.
func (b *Base) Trajectory(cfg any, opts ...TrajectoryOption) ([]Result, error) {
	if err := b.ensureLoaded(); err != nil {
		return nil, err
	}
	config, err := b.Normalize(cfg)
	if err != nil {
		return nil, err
	}

	sweep, err := SweepRange(b.def.Range, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, sweep.Count())
	for f := range sweep.Seq() {
		r, err := b.def.Query(config, f)
		if err != nil {
			return nil, fmt.Errorf("trajectory at %s: %w", f, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// SweepRange resolves trajectory options against a benchmark's
// fidelity range.
func SweepRange(r FidelityRange, opts ...TrajectoryOption) (FidelityRange, error) {
	var o trajectoryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return r.Sub(o.frm, o.to, o.step)
}

// Frame returns an empty ResultFrame that validates added results
// against this benchmark's space.
func (b *Base) Frame() *ResultFrame {
	return newFrame(b.def.Space)
}
