package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is a node in a configuration tree.  Values are immutable and are
// always pointers, so two values are the same value exactly when they are
// the same pointer.
type Value interface {
	Type() Type
	Origin() *Origin
	ResolveStatus() ResolveStatus
	// IgnoresFallbacks reports whether merging anything beneath this
	// value can change it.
	IgnoresFallbacks() bool
	WithOrigin(o *Origin) Value
	// Relativized adjusts references for a value moved under prefix.
	Relativized(prefix *Path) Value
	String() string

	value()
}

// Unmergeable values cannot be merged until resolved; merging records
// them in a delayed merge instead.
type Unmergeable interface {
	Value
	UnmergedValues() []Value
}

// Unwrap converts a resolved value into plain Go values: nil, bool,
// int64, float64, string, []any and map[string]any.
func Unwrap(v Value) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Null:
		return nil, nil
	case *Bool:
		return x.v, nil
	case *Number:
		return x.Unwrapped(), nil
	case *String:
		return x.s, nil
	case *List:
		res := make([]any, len(x.elems))
		for i, e := range x.elems {
			u, err := Unwrap(e)
			if err != nil {
				return nil, err
			}
			res[i] = u
		}
		return res, nil
	case *Object:
		res := make(map[string]any, len(x.m))
		for k, e := range x.m {
			u, err := Unwrap(e)
			if err != nil {
				return nil, err
			}
			res[k] = u
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: %s: cannot unwrap %s", ErrNotResolved, v.Origin().Description(), v)
	}
}

type base struct {
	origin *Origin
}

func (b *base) Origin() *Origin { return b.origin }
func (b *base) value()          {}

type Null struct{ base }

func NewNull(o *Origin) *Null { return &Null{base{o}} }

func (n *Null) Type() Type                     { return NullType }
func (n *Null) ResolveStatus() ResolveStatus   { return Resolved }
func (n *Null) IgnoresFallbacks() bool         { return true }
func (n *Null) WithOrigin(o *Origin) Value     { return NewNull(o) }
func (n *Null) Relativized(prefix *Path) Value { return n }
func (n *Null) Unwrapped() any                 { return nil }
func (n *Null) String() string                 { return "null" }

type Bool struct {
	base
	v bool
}

func NewBool(o *Origin, v bool) *Bool { return &Bool{base{o}, v} }

func (b *Bool) Type() Type                     { return BoolType }
func (b *Bool) ResolveStatus() ResolveStatus   { return Resolved }
func (b *Bool) IgnoresFallbacks() bool         { return true }
func (b *Bool) WithOrigin(o *Origin) Value     { return NewBool(o, b.v) }
func (b *Bool) Relativized(prefix *Path) Value { return b }
func (b *Bool) Value() bool                    { return b.v }
func (b *Bool) Unwrapped() any                 { return b.v }
func (b *Bool) String() string                 { return strconv.FormatBool(b.v) }

// Number holds an integer or a floating point value together with the
// text it was parsed from.
type Number struct {
	base
	isFloat bool
	i       int64
	f       float64
	text    string
}

// NewInt creates an integer number.  An empty text is replaced with the
// decimal rendering of i.
func NewInt(o *Origin, i int64, text string) *Number {
	if text == "" {
		text = strconv.FormatInt(i, 10)
	}
	return &Number{base: base{o}, i: i, text: text}
}

func NewFloat(o *Origin, f float64, text string) *Number {
	if text == "" {
		text = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return &Number{base: base{o}, isFloat: true, f: f, text: text}
}

// ParseNumber parses number text.  Text made only of an optional sign and
// digits is an integer, everything else a float.
func ParseNumber(o *Origin, text string) (*Number, error) {
	if isIntText(text) {
		i, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return NewInt(o, i, text), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	return NewFloat(o, f, text), nil
}

func isIntText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (n *Number) Type() Type                     { return NumberType }
func (n *Number) ResolveStatus() ResolveStatus   { return Resolved }
func (n *Number) IgnoresFallbacks() bool         { return true }
func (n *Number) Relativized(prefix *Path) Value { return n }

func (n *Number) WithOrigin(o *Origin) Value {
	c := *n
	c.origin = o
	return &c
}

func (n *Number) IsFloat() bool { return n.isFloat }
func (n *Number) Text() string  { return n.text }

// IsWhole reports whether the number has no fractional part.
func (n *Number) IsWhole() bool {
	if !n.isFloat {
		return true
	}
	return !math.IsInf(n.f, 0) && n.f == math.Trunc(n.f)
}

// Int64 truncates floats.  Floats outside the int64 range give 0; use
// Int64InRange to tell them apart.
func (n *Number) Int64() int64 {
	i, _ := n.Int64InRange()
	return i
}

// Int64InRange is Int64 with ok reporting whether the number fits in an
// int64.
func (n *Number) Int64InRange() (int64, bool) {
	if !n.isFloat {
		return n.i, true
	}
	if math.IsNaN(n.f) || n.f < -0x1p63 || n.f >= 0x1p63 {
		return 0, false
	}
	return int64(n.f), true
}

func (n *Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n *Number) Unwrapped() any {
	if n.isFloat {
		return n.f
	}
	return n.i
}

func (n *Number) String() string { return n.text }

// String is a quoted or unquoted string.  Unquoted strings that are only
// whitespace may be dropped when they sit next to an object or a list in a
// concatenation.
type String struct {
	base
	s      string
	quoted bool
}

func NewString(o *Origin, s string) *String { return &String{base{o}, s, true} }

func NewUnquotedString(o *Origin, s string) *String {
	return &String{base{o}, s, false}
}

func (s *String) Type() Type                     { return StringType }
func (s *String) ResolveStatus() ResolveStatus   { return Resolved }
func (s *String) IgnoresFallbacks() bool         { return true }
func (s *String) Relativized(prefix *Path) Value { return s }

func (s *String) WithOrigin(o *Origin) Value {
	return &String{base{o}, s.s, s.quoted}
}

func (s *String) Value() string  { return s.s }
func (s *String) Quoted() bool   { return s.quoted }
func (s *String) Unwrapped() any { return s.s }

func (s *String) String() string {
	if s.quoted {
		return Quote(s.s)
	}
	return s.s
}

// WasUnquotedWhitespace reports whether s is droppable whitespace.
func (s *String) WasUnquotedWhitespace() bool {
	if s.quoted {
		return false
	}
	for _, c := range s.s {
		if !unicode.IsSpace(c) {
			return false
		}
	}
	return true
}

// transformToString is the text a scalar contributes to a string
// concatenation.
func transformToString(v Value) (string, bool) {
	switch x := v.(type) {
	case *Null:
		return "null", true
	case *Bool:
		return strconv.FormatBool(x.v), true
	case *Number:
		return x.text, true
	case *String:
		return x.s, true
	}
	return "", false
}

// TransformToString exposes the concatenation text of a scalar.
func TransformToString(v Value) (string, bool) {
	return transformToString(v)
}
