// Package hartmann provides the synthetic multi-fidelity Hartmann
// benchmark family: the closed-form Hartmann 3- and 6-dimensional
// functions corrupted at low fidelity by a bias and deterministic
// pseudo-noise, in four severities. The family needs no data files and
// loads instantly, which also makes it the reference family for
// contract tests.
package hartmann

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/space"
)

// Prior tunes how hard low fidelities distort the true function: Bias
// shifts the value and Noise scales a deterministic perturbation, both
// fading linearly to zero at full fidelity.
type Prior struct {
	Name  string
	Bias  float64
	Noise float64
}

var (
	PriorGood     = Prior{Name: "good", Bias: 2.5, Noise: 0.1}
	PriorModerate = Prior{Name: "moderate", Bias: 5.0, Noise: 0.25}
	PriorBad      = Prior{Name: "bad", Bias: 7.5, Noise: 0.5}
	PriorTerrible = Prior{Name: "terrible", Bias: 10.0, Noise: 1.0}
)

// Priors lists the severities from easiest to hardest.
var Priors = []Prior{PriorGood, PriorModerate, PriorBad, PriorTerrible}

const (
	// MetricValue is the function value; lower is better.
	MetricValue = "value"
	// MetricFidCost is a smooth stand-in for the cost of evaluating
	// at a fidelity.
	MetricFidCost = "fid_cost"
)

var fidelities = mfbench.FidelityRange{Start: 1, Stop: 100, Step: 1, Int: true}

// Benchmark is one Hartmann function under multi-fidelity corruption.
type Benchmark struct {
	*mfbench.Base
	dims  int
	prior Prior
	seed  int64
	eval  func([]float64) float64
}

// New3 builds the 3-dimensional Hartmann benchmark.
func New3(prior Prior, seed int64) (*Benchmark, error) {
	return newBenchmark(3, prior, seed)
}

// New6 builds the 6-dimensional Hartmann benchmark.
func New6(prior Prior, seed int64) (*Benchmark, error) {
	return newBenchmark(6, prior, seed)
}

func newBenchmark(dims int, prior Prior, seed int64) (*Benchmark, error) {
	b := &Benchmark{dims: dims, prior: prior, seed: seed}
	switch dims {
	case 3:
		b.eval = hartmann3
	case 6:
		b.eval = hartmann6
	default:
		return nil, fmt.Errorf("hartmann is defined for 3 or 6 dimensions, got %d", dims)
	}

	base, err := mfbench.NewBase(mfbench.Definition{
		Name:         Name(dims, prior),
		Space:        unitSpace(dims),
		FidelityName: "z",
		Range:        fidelities,
		Metrics:      []string{MetricValue, MetricFidCost},
		Seed:         seed,
		Exact:        true,
		Query:        b.query,
	})
	if err != nil {
		return nil, err
	}
	b.Base = base
	return b, nil
}

// Name returns the registry name of a variant, e.g. "mfh3_good".
func Name(dims int, prior Prior) string {
	return fmt.Sprintf("mfh%d_%s", dims, prior.Name)
}

// unitSpace builds the d-dimensional unit hypercube with parameters
// x0..x{d-1}.
func unitSpace(dims int) *space.Space {
	lo, hi := space.Float(0), space.Float(1)
	params := make([]space.Parameter, dims)
	for i := range params {
		params[i] = space.Parameter{
			Name: fmt.Sprintf("x%d", i),
			Type: space.TypeFloat,
			Min:  &lo,
			Max:  &hi,
		}
	}
	return space.MustNew(params...)
}

func (b *Benchmark) query(cfg mfbench.Config, at mfbench.Fidelity) (mfbench.Result, error) {
	xs := make([]float64, b.dims)
	for i := range xs {
		x, ok := cfg.Float(fmt.Sprintf("x%d", i))
		if !ok {
			return mfbench.Result{}, fmt.Errorf("config %s is missing x%d", cfg.Key(), i)
		}
		xs[i] = x
	}

	// Hartmann maximizes; negate so lower is better.
	value := -b.eval(xs)

	// Corruption fades linearly to zero at full fidelity, so the top
	// of the range is the true function.
	degrade := float64(fidelities.Stop-at) / float64(fidelities.Stop-fidelities.Start)
	value += b.prior.Bias * degrade
	value += b.prior.Noise * degrade * noiseUnit(b.seed, cfg.Key(), at)

	zNorm := float64(at-fidelities.Start) / float64(fidelities.Stop-fidelities.Start)
	cost := 0.05 + zNorm*zNorm

	return mfbench.Result{
		Config:   cfg,
		Fidelity: at,
		Metrics: map[string]float64{
			MetricValue:   value,
			MetricFidCost: cost,
		},
	}, nil
}

// Optimum returns the location of the true function's optimum, useful
// as a regret reference at full fidelity.
func (b *Benchmark) Optimum() mfbench.Config {
	var xs []float64
	if b.dims == 3 {
		xs = []float64{0.114614, 0.555649, 0.852547}
	} else {
		xs = []float64{0.20169, 0.150011, 0.476874, 0.275332, 0.311652, 0.6573}
	}
	values := make(map[string]space.Value, len(xs))
	for i, x := range xs {
		values[fmt.Sprintf("x%d", i)] = space.Float(x)
	}
	return mfbench.NewConfig(values)
}

// noiseUnit derives a pseudo-noise sample in [-1, 1) from the seed,
// the config key, and the fidelity. Hashing instead of drawing from a
// stream keeps repeat queries bit-identical in any call order.
func noiseUnit(seed int64, key string, at mfbench.Fidelity) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s", seed, key, at)
	u := float64(h.Sum64()>>11) / float64(1<<53)
	return 2*u - 1
}

var hartmannAlpha = [4]float64{1.0, 1.2, 3.0, 3.2}

var hartmann3A = [4][3]float64{
	{3.0, 10.0, 30.0},
	{0.1, 10.0, 35.0},
	{3.0, 10.0, 30.0},
	{0.1, 10.0, 35.0},
}

var hartmann3P = [4][3]float64{
	{0.3689, 0.1170, 0.2673},
	{0.4699, 0.4387, 0.7470},
	{0.1091, 0.8732, 0.5547},
	{0.0381, 0.5743, 0.8828},
}

var hartmann6A = [4][6]float64{
	{10.0, 3.0, 17.0, 3.5, 1.7, 8.0},
	{0.05, 10.0, 17.0, 0.1, 8.0, 14.0},
	{3.0, 3.5, 1.7, 10.0, 17.0, 8.0},
	{17.0, 8.0, 0.05, 10.0, 0.1, 14.0},
}

var hartmann6P = [4][6]float64{
	{0.1312, 0.1696, 0.5569, 0.0124, 0.8283, 0.5886},
	{0.2329, 0.4135, 0.8307, 0.3736, 0.1004, 0.9991},
	{0.2348, 0.1451, 0.3522, 0.2883, 0.3047, 0.6650},
	{0.4047, 0.8828, 0.8732, 0.5743, 0.1091, 0.0381},
}

func hartmann3(x []float64) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		var inner float64
		for j := 0; j < 3; j++ {
			d := x[j] - hartmann3P[i][j]
			inner += hartmann3A[i][j] * d * d
		}
		sum += hartmannAlpha[i] * math.Exp(-inner)
	}
	return sum
}

func hartmann6(x []float64) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		var inner float64
		for j := 0; j < 6; j++ {
			d := x[j] - hartmann6P[i][j]
			inner += hartmann6A[i][j] * d * d
		}
		sum += hartmannAlpha[i] * math.Exp(-inner)
	}
	return sum
}

func init() {
	for _, dims := range []int{3, 6} {
		for _, prior := range Priors {
			alias := ""
			if prior.Name == PriorGood.Name {
				alias = fmt.Sprintf("mfh%d", dims)
			}
			mfbench.Register(mfbench.Entry{
				Name:        Name(dims, prior),
				Alias:       alias,
				Description: fmt.Sprintf("synthetic %d-d Hartmann, %s low-fidelity prior", dims, prior.Name),
				New: func(o mfbench.Options) (mfbench.Benchmark, error) {
					return newBenchmark(dims, prior, o.Seed)
				},
			})
		}
	}
}
