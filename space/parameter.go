package space

import (
	"fmt"
	"math"
	"math/rand"
)

// ParameterType identifies how a parameter's domain is described.
type ParameterType string

const (
	// TypeFloat is a continuous parameter bounded by min and max.
	TypeFloat ParameterType = "float"
	// TypeInt is an integer parameter bounded by min and max, inclusive.
	TypeInt ParameterType = "int"
	// TypeCategorical is a finite set of admissible values.
	TypeCategorical ParameterType = "categorical"
	// TypeConstant is a parameter pinned to a single value.
	TypeConstant ParameterType = "constant"
)

// Parameter describes one dimension of a search space.
type Parameter struct {
	Name string        `yaml:"name" json:"name"`
	Type ParameterType `yaml:"type" json:"type"`

	// Min and Max bound float and int parameters, inclusive.
	Min *Value `yaml:"min,omitempty" json:"min,omitempty"`
	Max *Value `yaml:"max,omitempty" json:"max,omitempty"`

	// Log samples float parameters uniformly in log space.
	Log bool `yaml:"log,omitempty" json:"log,omitempty"`

	// Choices is the domain of a categorical parameter.
	Choices []Value `yaml:"choices,omitempty" json:"choices,omitempty"`

	// Value pins a constant parameter.
	Value *Value `yaml:"value,omitempty" json:"value,omitempty"`
}

// ValidationError reports a configuration value that does not fit its
// search space.
type ValidationError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("parameter %q: value %s %s", e.Param, e.Value, e.Reason)
}

// Validate checks that the parameter definition itself is coherent.
func (p *Parameter) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter has no name")
	}
	switch p.Type {
	case TypeFloat, TypeInt:
		if p.Min == nil || p.Max == nil {
			return fmt.Errorf("parameter %q: %s parameters need min and max", p.Name, p.Type)
		}
		lo, okLo := p.Min.Float64()
		hi, okHi := p.Max.Float64()
		if !okLo || !okHi {
			return fmt.Errorf("parameter %q: min and max must be numbers", p.Name)
		}
		if hi < lo {
			return fmt.Errorf("parameter %q: max %v is below min %v", p.Name, hi, lo)
		}
		if p.Type == TypeInt {
			if _, ok := p.Min.Int64(); !ok {
				return fmt.Errorf("parameter %q: min must be an integer", p.Name)
			}
			if _, ok := p.Max.Int64(); !ok {
				return fmt.Errorf("parameter %q: max must be an integer", p.Name)
			}
		}
		if p.Log {
			if p.Type != TypeFloat {
				return fmt.Errorf("parameter %q: log scaling applies to float parameters only", p.Name)
			}
			if lo <= 0 {
				return fmt.Errorf("parameter %q: log scaling needs min > 0, got %v", p.Name, lo)
			}
		}
		if len(p.Choices) > 0 || p.Value != nil {
			return fmt.Errorf("parameter %q: choices and value are not valid for %s parameters", p.Name, p.Type)
		}
	case TypeCategorical:
		if len(p.Choices) == 0 {
			return fmt.Errorf("parameter %q: categorical parameters need at least one choice", p.Name)
		}
		seen := make(map[string]bool, len(p.Choices))
		for _, c := range p.Choices {
			key := c.Canonical()
			if seen[key] {
				return fmt.Errorf("parameter %q: duplicate choice %s", p.Name, key)
			}
			seen[key] = true
		}
		if p.Min != nil || p.Max != nil || p.Value != nil || p.Log {
			return fmt.Errorf("parameter %q: categorical parameters take choices only", p.Name)
		}
	case TypeConstant:
		if p.Value == nil {
			return fmt.Errorf("parameter %q: constant parameters need a value", p.Name)
		}
		if p.Min != nil || p.Max != nil || len(p.Choices) > 0 || p.Log {
			return fmt.Errorf("parameter %q: constant parameters take a value only", p.Name)
		}
	case "":
		return fmt.Errorf("parameter %q has no type", p.Name)
	default:
		return fmt.Errorf("parameter %q: unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Check reports whether the given value lies in the parameter's domain.
// Numeric values are interchangeable across int and float kinds as long
// as int parameters receive whole numbers.
func (p *Parameter) Check(v Value) error {
	if v.Kind() == KindInvalid {
		return &ValidationError{Param: p.Name, Reason: "value is missing"}
	}
	switch p.Type {
	case TypeFloat:
		f, ok := v.Float64()
		if !ok {
			return &ValidationError{Param: p.Name, Value: v.Canonical(), Reason: "is not a number"}
		}
		lo, _ := p.Min.Float64()
		hi, _ := p.Max.Float64()
		if f < lo || f > hi {
			return &ValidationError{Param: p.Name, Value: v.Canonical(),
				Reason: fmt.Sprintf("is outside [%v, %v]", lo, hi)}
		}
	case TypeInt:
		i, ok := v.Int64()
		if !ok {
			return &ValidationError{Param: p.Name, Value: v.Canonical(), Reason: "is not an integer"}
		}
		lo, _ := p.Min.Int64()
		hi, _ := p.Max.Int64()
		if i < lo || i > hi {
			return &ValidationError{Param: p.Name, Value: v.Canonical(),
				Reason: fmt.Sprintf("is outside [%d, %d]", lo, hi)}
		}
	case TypeCategorical:
		for _, c := range p.Choices {
			if v.Equal(c) {
				return nil
			}
		}
		return &ValidationError{Param: p.Name, Value: v.Canonical(), Reason: "is not one of the choices"}
	case TypeConstant:
		if !v.Equal(*p.Value) {
			return &ValidationError{Param: p.Name, Value: v.Canonical(),
				Reason: fmt.Sprintf("must equal the constant %s", p.Value.Canonical())}
		}
	default:
		return &ValidationError{Param: p.Name, Reason: fmt.Sprintf("has unknown type %q", p.Type)}
	}
	return nil
}

// Sample draws a value uniformly from the parameter's domain using rng.
// The parameter must have passed Validate.
func (p *Parameter) Sample(rng *rand.Rand) Value {
	switch p.Type {
	case TypeFloat:
		lo, _ := p.Min.Float64()
		hi, _ := p.Max.Float64()
		if p.Log {
			u := math.Log(lo) + rng.Float64()*(math.Log(hi)-math.Log(lo))
			return Float(clamp(math.Exp(u), lo, hi))
		}
		return Float(lo + rng.Float64()*(hi-lo))
	case TypeInt:
		lo, _ := p.Min.Int64()
		hi, _ := p.Max.Int64()
		return Int(lo + rng.Int63n(hi-lo+1))
	case TypeCategorical:
		return p.Choices[rng.Intn(len(p.Choices))]
	case TypeConstant:
		return *p.Value
	default:
		return Value{}
	}
}

// clamp keeps exp/log round trips from escaping the bounds by a ulp.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
