// Package surrogate implements predictor-backed benchmark families: a
// compact RBF model evaluated in place of recorded observations, so
// any in-space configuration is queryable at any fidelity.
package surrogate

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/space"
)

// Option adjusts benchmark construction.
type Option func(*options)

type options struct {
	seed int64
}

// WithSeed seeds the sampling stream.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// Benchmark predicts metrics with an RBF model instead of looking up
// recorded rows. Trajectories are predicted in one matrix multiply, so
// Exact() reports false: bulk results may drift from per-fidelity
// queries in the last float bits.
type Benchmark struct {
	*mfbench.Base

	dir  string
	file *space.File

	features []string
	centers  *mat.Dense // k x d basis centers
	widths   []float64
	heads    []metricHead
	weights  *mat.Dense // k x m, one column per metric head
}

// New describes the benchmark in dir without loading its model. The
// space file is read eagerly; the weights load on first query or an
// explicit Load.
func New(name, dir string, opts ...Option) (*Benchmark, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f, err := space.LoadFile(filepath.Join(dir, SpaceFileName))
	if err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, err)
	}
	if f.Name != name {
		return nil, fmt.Errorf("benchmark %q: space file in %s describes %q", name, dir, f.Name)
	}
	sp, err := f.Space()
	if err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, err)
	}

	b := &Benchmark{dir: dir, file: f}
	base, err := mfbench.NewBase(mfbench.Definition{
		Name:         name,
		Space:        sp,
		FidelityName: f.Fidelity.Name,
		Range: mfbench.FidelityRange{
			Start: mfbench.Fidelity(f.Fidelity.Start),
			Stop:  mfbench.Fidelity(f.Fidelity.Stop),
			Step:  mfbench.Fidelity(f.Fidelity.Step),
			Int:   f.Fidelity.Int,
		},
		Metrics: f.MetricNames(),
		Seed:    o.seed,
		Exact:   false,
		Load:    b.load,
		Query:   b.query,
	})
	if err != nil {
		return nil, err
	}
	b.Base = base
	return b, nil
}

// Dir returns the benchmark directory.
func (b *Benchmark) Dir() string { return b.dir }

// load parses and validates the model weights.
func (b *Benchmark) load() error {
	m, err := loadModel(filepath.Join(b.dir, ModelFileName))
	if err != nil {
		return fmt.Errorf("benchmark %q: %w", b.Name(), err)
	}
	if err := m.validate(b.file, b.Space()); err != nil {
		return fmt.Errorf("benchmark %q: %s: %w", b.Name(), ModelFileName, err)
	}

	k, d := len(m.Centers), len(m.Features)
	centers := mat.NewDense(k, d, nil)
	for i, c := range m.Centers {
		centers.SetRow(i, c)
	}
	heads := m.headsInOrder(b.file)
	weights := mat.NewDense(k, len(heads), nil)
	for j, h := range heads {
		weights.SetCol(j, h.Weights)
	}

	b.features = m.Features
	b.centers = centers
	b.widths = m.Widths
	b.heads = heads
	b.weights = weights
	return nil
}

// featureVector assembles the model input for one configuration at one
// fidelity, in the model's feature order.
func (b *Benchmark) featureVector(cfg mfbench.Config, at mfbench.Fidelity) ([]float64, error) {
	x := make([]float64, len(b.features))
	for i, name := range b.features {
		if name == b.FidelityName() {
			x[i] = float64(at)
			continue
		}
		v, ok := cfg.Float(name)
		if !ok {
			return nil, fmt.Errorf("benchmark %q: feature %q has no numeric value in %s", b.Name(), name, cfg)
		}
		x[i] = v
	}
	return x, nil
}

// phiInto fills dst with the RBF activations for input x.
func (b *Benchmark) phiInto(dst, x []float64) {
	for j := range dst {
		row := b.centers.RawRowView(j)
		var sq float64
		for i := range x {
			diff := x[i] - row[i]
			sq += diff * diff
		}
		dst[j] = math.Exp(-sq / (2 * b.widths[j] * b.widths[j]))
	}
}

// query predicts all metrics for one configuration at one fidelity.
func (b *Benchmark) query(cfg mfbench.Config, at mfbench.Fidelity) (mfbench.Result, error) {
	x, err := b.featureVector(cfg, at)
	if err != nil {
		return mfbench.Result{}, err
	}

	phi := make([]float64, len(b.widths))
	b.phiInto(phi, x)

	metrics := make(map[string]float64, len(b.heads))
	for _, h := range b.heads {
		metrics[h.Name] = h.Bias + floats.Dot(h.Weights, phi)
	}
	return mfbench.Result{Config: cfg, Fidelity: at, Metrics: metrics}, nil
}

// Trajectory predicts the whole sweep in one matrix multiply. This
// shadows the per-fidelity loop in the embedded base; see Exact.
func (b *Benchmark) Trajectory(cfg any, opts ...mfbench.TrajectoryOption) ([]mfbench.Result, error) {
	if err := b.Load(); err != nil {
		return nil, err
	}
	config, err := b.Normalize(cfg)
	if err != nil {
		return nil, err
	}
	sweep, err := mfbench.SweepRange(b.FidelityRange(), opts...)
	if err != nil {
		return nil, err
	}

	fids := sweep.Slice()
	n, k := len(fids), len(b.widths)

	phi := mat.NewDense(n, k, nil)
	row := make([]float64, k)
	for i, f := range fids {
		x, err := b.featureVector(config, f)
		if err != nil {
			return nil, err
		}
		b.phiInto(row, x)
		phi.SetRow(i, row)
	}

	var pred mat.Dense
	pred.Mul(phi, b.weights)

	results := make([]mfbench.Result, n)
	for i, f := range fids {
		metrics := make(map[string]float64, len(b.heads))
		for j, h := range b.heads {
			metrics[h.Name] = h.Bias + pred.At(i, j)
		}
		results[i] = mfbench.Result{Config: config, Fidelity: f, Metrics: metrics}
	}
	return results, nil
}
