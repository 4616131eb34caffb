// Package runtime is the property and model runtime used by the interpreter. Bindings are
// closures evaluated on read, there is no dependency graph.
package runtime

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a value of the UI language.
//
// The concrete types are nil (void), float64 for every numeric type, string, bool, Color,
// Brush, Image, Struct, Model, EnumValue, EasingCurve and LayoutCache.
type Value = any

// Epsilon is the tolerance of ApproxEqual
const Epsilon = 0.001

// ApproxEqual compares two lengths or other floating point quantities.
// The inverse comparison is exactly !ApproxEqual(a, b).
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// FloorMod is the modulo whose result has the sign of the divisor.
// The result is NaN when b is 0.
func FloorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// NumberToString formats a number independently of the locale, without trailing zeros
func NumberToString(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', 6, 32)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// EnumValue is a value of an enumeration, identified by names
type EnumValue struct {
	Enum  string
	Value string
}

func (e EnumValue) String() string {
	return e.Enum + "." + e.Value
}

// EasingCurve is an easing curve. The control points only matter for "cubic-bezier".
type EasingCurve struct {
	Kind           string
	X1, Y1, X2, Y2 float64
}

// LayoutCache holds the (position, size) pairs computed by a layout solver
type LayoutCache []float64

// Struct is a struct value. Structs have value semantics: With returns a modified copy.
type Struct struct {
	fields map[string]Value
}

// NewStruct creates a struct from its fields
func NewStruct(fields map[string]Value) Struct {
	s := Struct{fields: make(map[string]Value, len(fields))}
	for k, v := range fields {
		s.fields[k] = v
	}
	return s
}

// Field returns the value of a field, nil if absent
func (s Struct) Field(name string) Value {
	return s.fields[name]
}

// Has reports whether the struct has the field
func (s Struct) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// With returns a copy of s with name set to v
func (s Struct) With(name string, v Value) Struct {
	c := NewStruct(s.fields)
	c.fields[name] = v
	return c
}

// FieldNames returns the field names sorted
func (s Struct) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for k := range s.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Number converts a numeric value, 0 for anything else
func Number(v Value) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// String returns v if it is a string, "" otherwise
func String(v Value) string {
	s, _ := v.(string)
	return s
}

// Bool returns v if it is a bool, false otherwise
func Bool(v Value) bool {
	b, _ := v.(bool)
	return b
}

// Equal compares two values. Numbers are compared exactly, models by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Struct:
		b, ok := b.(Struct)
		if !ok || len(a.fields) != len(b.fields) {
			return false
		}
		for k, v := range a.fields {
			w, ok := b.fields[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Brush:
		b, ok := b.(Brush)
		return ok && a.Equal(b)
	case Image:
		b, ok := b.(Image)
		return ok && a.Equal(b)
	case LayoutCache:
		b, ok := b.(LayoutCache)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Model:
		b, ok := b.(Model)
		return ok && a == b
	}
	return a == b
}
