package benchmarks

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/mfbench"
)

func TestRegistryEnumeration(t *testing.T) {
	available := mfbench.Available()
	require.NotEmpty(t, available)

	assert.True(t, sort.SliceIsSorted(available, func(i, j int) bool {
		a, b := available[i], available[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Task < b.Task
	}), "Available() must be sorted by name then task")

	seen := make(map[string]bool, len(available))
	for _, d := range available {
		key := d.Name + "/" + d.Task
		assert.False(t, seen[key], "duplicate descriptor %s", key)
		seen[key] = true
	}

	names := mfbench.Names()
	assert.Contains(t, names, "mfh3_good")
	assert.Contains(t, names, "jahs")
	assert.Contains(t, names, "lm1b_transformer_2048")
}

// Every descriptor must be constructible: directly for self-contained
// families, or fail with a clear error when data is required but no
// data dir is given.
func TestEveryDescriptorConstructible(t *testing.T) {
	for _, d := range mfbench.Available() {
		t.Run(d.Name+"/"+d.Task, func(t *testing.T) {
			opts := []mfbench.GetOption{mfbench.WithSeed(1)}
			if d.Task != "" {
				opts = append(opts, mfbench.WithTask(d.Task))
			}

			b, err := mfbench.Get(d.Name, opts...)
			if d.NeedsData {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "data")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.Name, b.Name())
		})
	}
}

// The shared contract, swept over every family that constructs without
// external data.
func TestBenchmarkContract(t *testing.T) {
	for _, d := range mfbench.Available() {
		if d.NeedsData {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			b, err := mfbench.Get(d.Name, mfbench.WithSeed(42))
			require.NoError(t, err)

			assert.NotEmpty(t, b.FidelityName())
			assert.NotEmpty(t, b.Metrics())
			require.NoError(t, b.FidelityRange().Validate())
			require.Positive(t, b.Space().Len())

			cfgs, err := b.Sample(3)
			require.NoError(t, err)
			require.Len(t, cfgs, 3)

			r, err := b.Query(cfgs[0])
			require.NoError(t, err)
			assert.Equal(t, b.FidelityRange().Stop, r.Fidelity,
				"query defaults to the top of the fidelity range")
			for _, name := range b.Metrics() {
				_, ok := r.Metric(name)
				assert.True(t, ok, "result missing metric %q", name)
			}

			again, err := b.Query(cfgs[0])
			require.NoError(t, err)
			assert.True(t, r.Equal(again), "repeat queries must be deterministic")

			traj, err := b.Trajectory(cfgs[0])
			require.NoError(t, err)
			assert.Equal(t, b.FidelityRange().Count(), len(traj))
			for i := 1; i < len(traj); i++ {
				assert.Less(t, float64(traj[i-1].Fidelity), float64(traj[i].Fidelity),
					"trajectory fidelities must ascend")
			}

			if b.Exact() {
				for _, tr := range traj {
					q, err := b.Query(cfgs[0], mfbench.At(tr.Fidelity))
					require.NoError(t, err)
					assert.True(t, tr.Equal(q),
						"exact family: trajectory at %s must match query", tr.Fidelity)
				}
			}

			frame := b.Frame()
			require.NoError(t, frame.Add(traj...))
			assert.Equal(t, len(traj), frame.Len())
		})
	}
}

// Same seed, same benchmark: sampling and querying replay identically
// across instances.
func TestSeededReplay(t *testing.T) {
	for _, d := range mfbench.Available() {
		if d.NeedsData {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			b1, err := mfbench.Get(d.Name, mfbench.WithSeed(7))
			require.NoError(t, err)
			b2, err := mfbench.Get(d.Name, mfbench.WithSeed(7))
			require.NoError(t, err)

			c1, err := b1.Sample(4)
			require.NoError(t, err)
			c2, err := b2.Sample(4)
			require.NoError(t, err)

			for i := range c1 {
				require.True(t, c1[i].Equal(c2[i]),
					"sample %d differs between same-seed instances", i)
			}

			r1, err := b1.Query(c1[0])
			require.NoError(t, err)
			r2, err := b2.Query(c2[0])
			require.NoError(t, err)
			assert.True(t, r1.Equal(r2))
		})
	}
}

func TestUnknownBenchmark(t *testing.T) {
	_, err := mfbench.Get("no_such_benchmark")
	require.Error(t, err)
	assert.ErrorIs(t, err, mfbench.ErrNotFound)
	assert.Contains(t, err.Error(), "no_such_benchmark")
}

func Example() {
	for _, d := range mfbench.Available() {
		if d.Name != "mfh3_good" {
			continue
		}
		fmt.Println(d.Name)
	}
	// Output: mfh3_good
}
