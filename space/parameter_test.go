package space

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatParam(name string, lo, hi float64) Parameter {
	mn, mx := Float(lo), Float(hi)
	return Parameter{Name: name, Type: TypeFloat, Min: &mn, Max: &mx}
}

func intParam(name string, lo, hi int64) Parameter {
	mn, mx := Int(lo), Int(hi)
	return Parameter{Name: name, Type: TypeInt, Min: &mn, Max: &mx}
}

func TestParameterValidate(t *testing.T) {
	mn, mx := Float(0.1), Float(10.0)
	cv := Str("adam")

	tests := []struct {
		name    string
		p       Parameter
		wantErr string
	}{
		{"valid float", floatParam("lr", 1e-4, 1.0), ""},
		{"valid int", intParam("units", 16, 1024), ""},
		{"valid categorical", Parameter{Name: "opt", Type: TypeCategorical, Choices: []Value{Str("adam"), Str("sgd")}}, ""},
		{"valid constant", Parameter{Name: "opt", Type: TypeConstant, Value: &cv}, ""},
		{"valid log float", Parameter{Name: "lr", Type: TypeFloat, Min: &mn, Max: &mx, Log: true}, ""},
		{"no name", Parameter{Type: TypeFloat, Min: &mn, Max: &mx}, "no name"},
		{"no type", Parameter{Name: "x"}, "no type"},
		{"unknown type", Parameter{Name: "x", Type: "gaussian"}, "unknown type"},
		{"float without bounds", Parameter{Name: "x", Type: TypeFloat}, "need min and max"},
		{"inverted bounds", floatParam("x", 2, 1), "below min"},
		{"log with zero min", Parameter{Name: "x", Type: TypeFloat, Min: ptr(Float(0)), Max: &mx, Log: true}, "min > 0"},
		{"log on int", Parameter{Name: "x", Type: TypeInt, Min: ptr(Int(1)), Max: ptr(Int(8)), Log: true}, "float parameters only"},
		{"int with float bound", Parameter{Name: "x", Type: TypeInt, Min: ptr(Float(1.5)), Max: ptr(Int(8))}, "must be an integer"},
		{"categorical without choices", Parameter{Name: "x", Type: TypeCategorical}, "at least one choice"},
		{"duplicate choices", Parameter{Name: "x", Type: TypeCategorical, Choices: []Value{Int(1), Float(1.0)}}, "duplicate choice"},
		{"constant without value", Parameter{Name: "x", Type: TypeConstant}, "need a value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func ptr(v Value) *Value { return &v }

func TestParameterCheck(t *testing.T) {
	lr := floatParam("lr", 0.001, 1.0)
	units := intParam("units", 16, 64)
	opt := Parameter{Name: "opt", Type: TypeCategorical, Choices: []Value{Str("adam"), Str("sgd")}}
	depth := Parameter{Name: "depth", Type: TypeConstant, Value: ptr(Int(3))}

	assert.NoError(t, lr.Check(Float(0.01)))
	assert.NoError(t, lr.Check(Int(1)), "ints fit float parameters")
	assert.Error(t, lr.Check(Float(2.0)))
	assert.Error(t, lr.Check(Str("0.01")))

	assert.NoError(t, units.Check(Int(32)))
	assert.NoError(t, units.Check(Float(32.0)), "whole floats fit int parameters")
	assert.Error(t, units.Check(Float(32.5)))
	assert.Error(t, units.Check(Int(8)))

	assert.NoError(t, opt.Check(Str("sgd")))
	assert.Error(t, opt.Check(Str("rmsprop")))

	assert.NoError(t, depth.Check(Int(3)))
	assert.NoError(t, depth.Check(Float(3.0)))
	assert.Error(t, depth.Check(Int(4)))

	var verr *ValidationError
	require.ErrorAs(t, lr.Check(Float(2.0)), &verr)
	assert.Equal(t, "lr", verr.Param)
}

func TestParameterSampleInDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	lr := floatParam("lr", 1e-4, 1.0)
	lr.Log = true
	units := intParam("units", 16, 64)
	opt := Parameter{Name: "opt", Type: TypeCategorical, Choices: []Value{Str("adam"), Str("sgd")}}

	for i := 0; i < 200; i++ {
		require.NoError(t, lr.Check(lr.Sample(rng)))
		require.NoError(t, units.Check(units.Sample(rng)))
		require.NoError(t, opt.Check(opt.Sample(rng)))
	}
}

func TestParameterSampleDeterministic(t *testing.T) {
	p := floatParam("lr", 0, 1)

	a := p.Sample(rand.New(rand.NewSource(7)))
	b := p.Sample(rand.New(rand.NewSource(7)))
	assert.True(t, a.Equal(b))

	// consecutive draws from one stream differ
	rng := rand.New(rand.NewSource(7))
	first := p.Sample(rng)
	second := p.Sample(rng)
	assert.False(t, first.Equal(second))
}

func TestLogSamplingCoversDecades(t *testing.T) {
	p := floatParam("lr", 1e-6, 1.0)
	p.Log = true
	rng := rand.New(rand.NewSource(3))

	low := 0
	for i := 0; i < 1000; i++ {
		f, ok := p.Sample(rng).Float64()
		require.True(t, ok)
		if f < 1e-3 {
			low++
		}
	}
	// log-uniform puts about half the mass below the geometric midpoint
	assert.Greater(t, low, 300)
	assert.Less(t, low, 700)
}
