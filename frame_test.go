package mfbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/mfbench/space"
)

func frameResult(x float64, fid Fidelity, value float64) Result {
	return Result{
		Config:   NewConfig(map[string]space.Value{"x": space.Float(x)}),
		Fidelity: fid,
		Metrics:  map[string]float64{"value": value},
	}
}

func TestFrameAddLenAndLookup(t *testing.T) {
	f := NewFrame()

	r1 := frameResult(0.1, 1, 10)
	r2 := frameResult(0.2, 2, 20)
	r3 := frameResult(0.1, 1, 30) // same config and fidelity as r1

	require.NoError(t, f.Add(r1))
	require.NoError(t, f.Add(r2, r3))
	assert.Equal(t, 3, f.Len())

	at1 := f.AtFidelity(1)
	require.Len(t, at1, 2)
	assert.True(t, at1[0].Equal(r1), "insertion order is preserved")
	assert.True(t, at1[1].Equal(r3))

	require.Len(t, f.AtFidelity(2), 1)

	forCfg := f.ForConfig(r1.Config)
	require.Len(t, forCfg, 2)
	assert.True(t, forCfg[0].Equal(r1))
	assert.True(t, forCfg[1].Equal(r3))
}

func TestFrameEmptyLookups(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.Add(frameResult(0.1, 1, 10)))

	assert.Empty(t, f.AtFidelity(99))
	assert.Empty(t, f.ForConfig(map[string]any{"x": 0.9}))
	assert.Empty(t, f.ForConfig(struct{ Weird chan int }{}), "unparseable keys match nothing")
}

func TestFrameForConfigAcceptsMaps(t *testing.T) {
	f := NewFrame()
	r := frameResult(0.25, 5, 1)
	require.NoError(t, f.Add(r))

	got := f.ForConfig(map[string]any{"x": 0.25})
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(r))
}

func TestFrameDeleteFidelity(t *testing.T) {
	f := NewFrame()
	r1 := frameResult(0.1, 1, 10)
	r2 := frameResult(0.2, 2, 20)
	r3 := frameResult(0.1, 1, 30)
	require.NoError(t, f.Add(r1, r2, r3))

	require.NoError(t, f.DeleteFidelity(1))
	assert.Equal(t, 1, f.Len())
	assert.Empty(t, f.AtFidelity(1))
	assert.Empty(t, f.ForConfig(r1.Config))

	remaining := f.AtFidelity(2)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].Equal(r2))

	err := f.DeleteFidelity(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 1, f.Len(), "failed deletes change nothing")
}

func TestFrameAddAllOrNothing(t *testing.T) {
	s := space.MustNew(space.Parameter{
		Name: "x", Type: space.TypeFloat,
		Min: valuePtr(space.Float(0)), Max: valuePtr(space.Float(1)),
	})
	f := newFrame(s)

	good := frameResult(0.5, 1, 10)
	outOfSpace := frameResult(2.5, 1, 10)

	err := f.Add(good, outOfSpace)
	require.Error(t, err)
	assert.Equal(t, 0, f.Len(), "a failed batch admits nothing")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, f.Add(good))
	assert.Equal(t, 1, f.Len())
}

func valuePtr(v space.Value) *space.Value { return &v }

func TestFrameRejectsMalformedResults(t *testing.T) {
	f := NewFrame()

	assert.Error(t, f.Add(Result{Fidelity: 1, Metrics: map[string]float64{"v": 1}}), "empty config")

	c := NewConfig(map[string]space.Value{"x": space.Float(0.5)})
	assert.Error(t, f.Add(Result{Config: c, Fidelity: 1}), "no metrics")
	assert.Equal(t, 0, f.Len())
}

func TestFrameEnumeration(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.Add(
		frameResult(0.2, 10, 5),
		frameResult(0.1, 1, 7),
		frameResult(0.2, 5, 3),
	))

	assert.Equal(t, []Fidelity{1, 5, 10}, f.Fidelities())

	cfgs := f.Configs()
	require.Len(t, cfgs, 2)
	x, _ := cfgs[0].Float("x")
	assert.Equal(t, 0.2, x, "first-seen order")

	all := f.All()
	require.Len(t, all, 3)
	assert.True(t, all[1].Equal(frameResult(0.1, 1, 7)))
}

func TestFrameBestAndSummary(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.Add(
		frameResult(0.1, 1, 4),
		frameResult(0.2, 1, 2),
		frameResult(0.3, 1, 6),
	))

	best, ok := f.Best("value", true)
	require.True(t, ok)
	v, _ := best.Metric("value")
	assert.Equal(t, 2.0, v)

	worst, ok := f.Best("value", false)
	require.True(t, ok)
	v, _ = worst.Metric("value")
	assert.Equal(t, 6.0, v)

	_, ok = f.Best("absent", true)
	assert.False(t, ok)

	s := f.Summary("value")
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 4.0, s.Mean)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.InDelta(t, 1.632993, s.Std, 1e-5)

	empty := f.Summary("absent")
	assert.Equal(t, 0, empty.Count)
}
