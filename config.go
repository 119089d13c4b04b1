package mfbench

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/spboyer/mfbench/space"
)

// Config is one named assignment of hyperparameter values. Configs are
// immutable value types: copy them freely, compare them with Equal or
// EqualValues, and key collections by Key.
type Config struct {
	values map[string]space.Value
	key    string
}

// NewConfig builds a Config from explicit values. The map is copied.
func NewConfig(values map[string]space.Value) Config {
	copied := make(map[string]space.Value, len(values))
	for name, v := range values {
		copied[name] = v
	}
	return Config{values: copied, key: canonicalKey(copied)}
}

// ConfigFromMap builds a Config from dynamically typed values, as
// decoded from YAML or JSON.
func ConfigFromMap(m map[string]any) (Config, error) {
	values := make(map[string]space.Value, len(m))
	for name, raw := range m {
		v, err := space.FromAny(raw)
		if err != nil {
			return Config{}, fmt.Errorf("value for %q: %w", name, err)
		}
		values[name] = v
	}
	return Config{values: values, key: canonicalKey(values)}, nil
}

// ConfigFromAny normalizes the inputs Query accepts: a Config, a map
// of values, or a struct whose fields name hyperparameters (decoded
// with mapstructure tags).
func ConfigFromAny(v any) (Config, error) {
	switch val := v.(type) {
	case Config:
		return val, nil
	case *Config:
		if val == nil {
			return Config{}, fmt.Errorf("nil config")
		}
		return *val, nil
	case map[string]space.Value:
		return NewConfig(val), nil
	case map[string]any:
		return ConfigFromMap(val)
	case nil:
		return Config{}, fmt.Errorf("nil config")
	default:
		var m map[string]any
		if err := mapstructure.Decode(v, &m); err != nil {
			return Config{}, fmt.Errorf("decoding %T as config: %w", v, err)
		}
		return ConfigFromMap(m)
	}
}

// canonicalKey renders values in sorted name order so that equal
// configs produce byte-equal keys regardless of construction order or
// int/float representation.
func canonicalKey(values map[string]space.Value) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(values[name].Canonical())
	}
	return sb.String()
}

// Len returns the number of assigned hyperparameters.
func (c Config) Len() int { return len(c.values) }

// Names returns the hyperparameter names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the assignment for one hyperparameter.
func (c Config) Value(name string) (space.Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Float returns a numeric hyperparameter as a float64.
func (c Config) Float(name string) (float64, bool) {
	v, ok := c.values[name]
	if !ok {
		return 0, false
	}
	return v.Float64()
}

// Int returns a whole-number hyperparameter as an int64.
func (c Config) Int(name string) (int64, bool) {
	v, ok := c.values[name]
	if !ok {
		return 0, false
	}
	return v.Int64()
}

// Str returns a string hyperparameter.
func (c Config) Str(name string) (string, bool) {
	v, ok := c.values[name]
	if !ok {
		return "", false
	}
	return v.Text()
}

// ToMap exports the config as plain Go values. The round trip through
// ConfigFromMap preserves equality: c.EqualValues(m) holds for
// m := c.ToMap().
func (c Config) ToMap() map[string]any {
	m := make(map[string]any, len(c.values))
	for name, v := range c.values {
		m[name] = v.Interface()
	}
	return m
}

// Key returns the canonical key identifying this assignment. Equal
// configs share a key; the int 1 and the float 1.0 render identically
// while strings stay distinct from numbers.
func (c Config) Key() string { return c.key }

// Equal reports whether two configs assign interchangeable values to
// the same hyperparameters.
func (c Config) Equal(o Config) bool {
	return c.key == o.key
}

// EqualValues is the loose comparison for inputs that round-tripped
// through maps, YAML, or structs: the argument is normalized like a
// Query input and compared by canonical key. Unparseable inputs
// compare unequal.
func (c Config) EqualValues(v any) bool {
	o, err := ConfigFromAny(v)
	if err != nil {
		return false
	}
	return c.Equal(o)
}

// String renders the canonical key.
func (c Config) String() string { return c.key }
