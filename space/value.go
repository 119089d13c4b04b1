package space

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the concrete type held by a Value.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindInt
	KindFloat
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value holds a single hyperparameter value: an integer, a float, or a
// string. The zero Value is invalid and fails validation everywhere.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// Int returns a Value holding an integer.
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Float returns a Value holding a float.
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Str returns a Value holding a string.
func Str(v string) Value {
	return Value{kind: KindString, s: v}
}

// FromAny converts a dynamically typed value into a Value. Supported
// inputs are the Go integer and float types, string, json.Number, and
// Value itself.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Str(val), nil
	case json.Number:
		if strings.ContainsAny(string(val), ".eE") {
			f, err := val.Float64()
			if err != nil {
				return Value{}, fmt.Errorf("parsing number %q: %w", val, err)
			}
			return Float(f), nil
		}
		i, err := val.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("parsing number %q: %w", val, err)
		}
		return Int(i), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind reports the kind of value held.
func (v Value) Kind() ValueKind { return v.kind }

// IsNumber reports whether the value is an int or a float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Int64 returns the value as an int64. Floats convert only when they
// carry no fractional part.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// Float64 returns the value as a float64 for either numeric kind.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Text returns the held string. Numbers do not convert.
func (v Value) Text() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// Interface returns the value as its natural Go type (int64, float64,
// or string). Invalid values return nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// Canonical renders the value into a form stable across equal values:
// the int 1 and the float 1.0 render identically, while strings are
// quoted so that "1" never collides with the number 1.
func (v Value) Canonical() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) && math.Abs(v.f) < 1e15 {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values are interchangeable: numeric kinds
// compare by numeric value regardless of int/float representation,
// strings compare only against strings.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		vf, _ := v.Float64()
		of, _ := o.Float64()
		return vf == of
	}
	if v.kind == KindString && o.kind == KindString {
		return v.s == o.s
	}
	return v.kind == KindInvalid && o.kind == KindInvalid
}

// MarshalJSON renders ints and floats as JSON numbers and strings as
// JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	iv := v.Interface()
	if iv == nil {
		return nil, fmt.Errorf("cannot marshal invalid value")
	}
	return json.Marshal(iv)
}

// UnmarshalJSON preserves the number kind: digits-only numbers decode
// as ints, anything with a fraction or exponent decodes as a float.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	iv := v.Interface()
	if iv == nil {
		return nil, fmt.Errorf("cannot marshal invalid value")
	}
	return iv, nil
}

// UnmarshalYAML implements yaml.Unmarshaler using the node's resolved
// scalar type.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = val
	return nil
}
