// Package space models the search spaces that benchmarks sample from
// and validate against: typed parameter domains, a number-or-string
// value union, and the YAML space file format with schema validation.
package space

import (
	"fmt"
	"math/rand"
	"sort"
)

// Space is an ordered collection of named parameters.
type Space struct {
	params []Parameter
	index  map[string]int
}

// New builds a space from the given parameters. Every parameter must
// validate and names must be unique.
func New(params ...Parameter) (*Space, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("space has no parameters")
	}
	s := &Space{
		params: make([]Parameter, len(params)),
		index:  make(map[string]int, len(params)),
	}
	copy(s.params, params)
	for i := range s.params {
		p := &s.params[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		s.index[p.Name] = i
	}
	return s, nil
}

// MustNew is New but panics on error. Intended for statically known
// spaces registered at init time.
func MustNew(params ...Parameter) *Space {
	s, err := New(params...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of parameters.
func (s *Space) Len() int { return len(s.params) }

// Parameters returns the parameters in declaration order.
func (s *Space) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Names returns the parameter names in declaration order.
func (s *Space) Names() []string {
	out := make([]string, len(s.params))
	for i := range s.params {
		out[i] = s.params[i].Name
	}
	return out
}

// SortedNames returns the parameter names in lexical order, the order
// used for canonical config keys.
func (s *Space) SortedNames() []string {
	out := s.Names()
	sort.Strings(out)
	return out
}

// Get looks up a parameter by name.
func (s *Space) Get(name string) (Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// Sample draws one complete assignment from the space. Parameters are
// drawn in declaration order so equal seeds give equal assignments.
func (s *Space) Sample(rng *rand.Rand) map[string]Value {
	values := make(map[string]Value, len(s.params))
	for i := range s.params {
		values[s.params[i].Name] = s.params[i].Sample(rng)
	}
	return values
}

// Validate checks a complete assignment: every parameter present, no
// unknown names, every value inside its domain.
func (s *Space) Validate(values map[string]Value) error {
	for name := range values {
		if _, ok := s.index[name]; !ok {
			return &ValidationError{Param: name, Reason: "is not in the space"}
		}
	}
	for i := range s.params {
		p := &s.params[i]
		v, ok := values[p.Name]
		if !ok {
			return &ValidationError{Param: p.Name, Reason: "is missing"}
		}
		if err := p.Check(v); err != nil {
			return err
		}
	}
	return nil
}
