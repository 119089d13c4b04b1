package hartmann

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/mfbench"
)

func TestVariantsRegistered(t *testing.T) {
	for _, dims := range []int{3, 6} {
		for _, prior := range Priors {
			name := Name(dims, prior)
			b, err := mfbench.Get(name, mfbench.WithSeed(1))
			require.NoError(t, err, name)
			assert.Equal(t, name, b.Name())
			assert.True(t, b.Exact())
		}
	}

	viaAlias, err := mfbench.Get("mfh3")
	require.NoError(t, err)
	assert.Equal(t, "mfh3_good", viaAlias.Name())

	viaAlias, err = mfbench.Get("mfh6")
	require.NoError(t, err)
	assert.Equal(t, "mfh6_good", viaAlias.Name())
}

func TestSpaceShape(t *testing.T) {
	b3, err := New3(PriorGood, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b3.Space().Len())
	assert.Equal(t, "z", b3.FidelityName())
	assert.Equal(t, mfbench.FidelityRange{Start: 1, Stop: 100, Step: 1, Int: true}, b3.FidelityRange())

	b6, err := New6(PriorTerrible, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, b6.Space().Len())
	assert.Equal(t, []string{"value", "fid_cost"}, b6.Metrics())
}

func TestSampledConfigsQuery(t *testing.T) {
	b, err := New3(PriorGood, 7)
	require.NoError(t, err)

	cfgs, err := b.Sample(10)
	require.NoError(t, err)
	for _, cfg := range cfgs {
		r, err := b.Query(cfg)
		require.NoError(t, err)
		assert.Equal(t, mfbench.Fidelity(100), r.Fidelity, "default query is the top fidelity")
		_, ok := r.Metric(MetricValue)
		assert.True(t, ok)
		_, ok = r.Metric(MetricFidCost)
		assert.True(t, ok)
	}
}

func TestRepeatQueryDeterminism(t *testing.T) {
	b, err := New6(PriorBad, 3)
	require.NoError(t, err)

	cfgs, err := b.Sample(5)
	require.NoError(t, err)

	for _, cfg := range cfgs {
		for _, at := range []mfbench.Fidelity{1, 37, 100} {
			a, err := b.Query(cfg, mfbench.At(at))
			require.NoError(t, err)
			bb, err := b.Query(cfg, mfbench.At(at))
			require.NoError(t, err)
			assert.True(t, a.Equal(bb), "fidelity %s", at)
		}
	}
}

func TestSameSeedSameResults(t *testing.T) {
	a, err := New3(PriorModerate, 11)
	require.NoError(t, err)
	b, err := New3(PriorModerate, 11)
	require.NoError(t, err)

	cfgsA, err := a.Sample(5)
	require.NoError(t, err)
	cfgsB, err := b.Sample(5)
	require.NoError(t, err)

	for i := range cfgsA {
		require.True(t, cfgsA[i].Equal(cfgsB[i]), "equal seeds sample equal streams")

		ra, err := a.Query(cfgsA[i], mfbench.At(20))
		require.NoError(t, err)
		rb, err := b.Query(cfgsB[i], mfbench.At(20))
		require.NoError(t, err)
		assert.True(t, ra.Equal(rb))
	}
}

func TestTrajectoryMatchesQueries(t *testing.T) {
	b, err := New3(PriorTerrible, 5)
	require.NoError(t, err)

	cfgs, err := b.Sample(1)
	require.NoError(t, err)
	cfg := cfgs[0]

	traj, err := b.Trajectory(cfg)
	require.NoError(t, err)
	require.Len(t, traj, 100)

	for i, f := range b.FidelityRange().Slice() {
		q, err := b.Query(cfg, mfbench.At(f))
		require.NoError(t, err)
		require.True(t, traj[i].Equal(q), "fidelity %s", f)
	}
}

func TestFullFidelityIsExactFunction(t *testing.T) {
	for _, prior := range Priors {
		b, err := New3(prior, 1)
		require.NoError(t, err)

		r, err := b.Query(b.Optimum())
		require.NoError(t, err)

		v, ok := r.Metric(MetricValue)
		require.True(t, ok)
		// the published Hartmann3 optimum, negated; corruption is zero
		// at full fidelity so every prior agrees
		assert.InDelta(t, -3.86278, v, 1e-3, prior.Name)
	}

	b6, err := New6(PriorGood, 1)
	require.NoError(t, err)
	r, err := b6.Query(b6.Optimum())
	require.NoError(t, err)
	v, _ := r.Metric(MetricValue)
	assert.InDelta(t, -3.32237, v, 1e-3)
}

func TestLowFidelityDegrades(t *testing.T) {
	b, err := New3(PriorTerrible, 1)
	require.NoError(t, err)
	opt := b.Optimum()

	full, err := b.Query(opt, mfbench.At(100))
	require.NoError(t, err)
	low, err := b.Query(opt, mfbench.At(1))
	require.NoError(t, err)

	fv, _ := full.Metric(MetricValue)
	lv, _ := low.Metric(MetricValue)
	assert.Greater(t, lv, fv, "bias pushes low-fidelity values up")

	fc, _ := full.Metric(MetricFidCost)
	lc, _ := low.Metric(MetricFidCost)
	assert.Greater(t, fc, lc, "cost grows with fidelity")
}

func TestPriorSeverityAtLowFidelity(t *testing.T) {
	opt3 := []float64{0.114614, 0.555649, 0.852547}
	cfg := map[string]any{}
	for i, x := range opt3 {
		cfg[fmt.Sprintf("x%d", i)] = x
	}

	var prev float64
	for i, prior := range Priors {
		b, err := New3(prior, 1)
		require.NoError(t, err)

		r, err := b.Query(cfg, mfbench.At(1))
		require.NoError(t, err)
		v, _ := r.Metric(MetricValue)

		if i > 0 {
			assert.Greater(t, v, prev, "%s lies harder than the previous prior", prior.Name)
		}
		prev = v
	}
}

func TestQueryOutOfRange(t *testing.T) {
	b, err := New3(PriorGood, 1)
	require.NoError(t, err)

	_, err = b.Query(b.Optimum(), mfbench.At(0))
	var oor *mfbench.OutOfRangeError
	require.ErrorAs(t, err, &oor)

	_, err = b.Query(b.Optimum(), mfbench.At(101))
	assert.ErrorAs(t, err, &oor)
}

func TestOptimumValidates(t *testing.T) {
	for _, newFn := range []func(Prior, int64) (*Benchmark, error){New3, New6} {
		b, err := newFn(PriorGood, 1)
		require.NoError(t, err)
		_, err = b.Query(b.Optimum())
		assert.NoError(t, err)
	}
}

func TestBadDimension(t *testing.T) {
	_, err := newBenchmark(4, PriorGood, 1)
	assert.Error(t, err)
}
