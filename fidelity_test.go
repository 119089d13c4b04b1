package mfbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFidelityRangeSeq(t *testing.T) {
	tests := []struct {
		name string
		r    FidelityRange
		want []Fidelity
	}{
		{
			"stop on step boundary is included",
			FidelityRange{Start: 1, Stop: 10, Step: 3, Int: true},
			[]Fidelity{1, 4, 7, 10},
		},
		{
			"stop off the grid is never overshot",
			FidelityRange{Start: 1, Stop: 10, Step: 4, Int: true},
			[]Fidelity{1, 5, 9},
		},
		{
			"single point",
			FidelityRange{Start: 5, Stop: 5, Step: 1, Int: true},
			[]Fidelity{5},
		},
		{
			"unit steps",
			FidelityRange{Start: 1, Stop: 5, Step: 1, Int: true},
			[]Fidelity{1, 2, 3, 4, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Slice())
			assert.Equal(t, len(tt.want), tt.r.Count())
		})
	}
}

func TestFidelityRangeSeqFloatSteps(t *testing.T) {
	r := FidelityRange{Start: 0.1, Stop: 0.5, Step: 0.1}
	got := r.Slice()

	require.Len(t, got, 5, "float accumulation must not drop the endpoint")
	want := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for i, f := range got {
		assert.InDelta(t, want[i], float64(f), 1e-9)
	}
}

func TestFidelityRangeSeqRestartable(t *testing.T) {
	r := FidelityRange{Start: 1, Stop: 100, Step: 1, Int: true}
	seq := r.Seq()

	first := make([]Fidelity, 0, 100)
	for f := range seq {
		first = append(first, f)
	}
	second := make([]Fidelity, 0, 100)
	for f := range seq {
		second = append(second, f)
	}

	assert.Len(t, first, 100)
	assert.Equal(t, first, second, "the sequence restarts from the beginning")
}

func TestFidelityRangeSeqEarlyStop(t *testing.T) {
	r := FidelityRange{Start: 1, Stop: 10, Step: 1, Int: true}

	var got []Fidelity
	for f := range r.Seq() {
		got = append(got, f)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []Fidelity{1, 2, 3}, got)
}

func TestFidelityRangeContains(t *testing.T) {
	r := FidelityRange{Start: 1, Stop: 100, Step: 1, Int: true}

	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(50.5), "off-grid values are still in range")
	assert.False(t, r.Contains(0))
	assert.False(t, r.Contains(101))
}

func TestFidelityRangeValidate(t *testing.T) {
	assert.NoError(t, FidelityRange{Start: 1, Stop: 10, Step: 1, Int: true}.Validate())
	assert.Error(t, FidelityRange{Start: 1, Stop: 10, Step: 0}.Validate())
	assert.Error(t, FidelityRange{Start: 10, Stop: 1, Step: 1}.Validate())
	assert.Error(t, FidelityRange{Start: 1, Stop: 10.5, Step: 1, Int: true}.Validate())
}

func TestFidelityRangeSub(t *testing.T) {
	r := FidelityRange{Start: 1, Stop: 100, Step: 1, Int: true}

	t.Run("defaults keep the receiver", func(t *testing.T) {
		sub, err := r.Sub(nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, r, sub)
	})

	t.Run("clipped sweep", func(t *testing.T) {
		frm, to, step := Fidelity(10), Fidelity(20), Fidelity(5)
		sub, err := r.Sub(&frm, &to, &step)
		require.NoError(t, err)
		assert.Equal(t, []Fidelity{10, 15, 20}, sub.Slice())
	})

	t.Run("from below range", func(t *testing.T) {
		frm := Fidelity(0)
		_, err := r.Sub(&frm, nil, nil)
		var oor *OutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, Fidelity(0), oor.Fidelity)
	})

	t.Run("to above range", func(t *testing.T) {
		to := Fidelity(101)
		_, err := r.Sub(nil, &to, nil)
		var oor *OutOfRangeError
		require.ErrorAs(t, err, &oor)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		frm, to := Fidelity(20), Fidelity(10)
		_, err := r.Sub(&frm, &to, nil)
		assert.Error(t, err)
	})
}

func TestFidelityString(t *testing.T) {
	assert.Equal(t, "7", Fidelity(7).String())
	assert.Equal(t, "0.25", Fidelity(0.25).String())
	assert.Equal(t, "[1, 100] by 1", FidelityRange{Start: 1, Stop: 100, Step: 1}.String())
}
