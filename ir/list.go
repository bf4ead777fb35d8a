package ir

import "strings"

type List struct {
	base
	elems  []Value
	status ResolveStatus
}

func NewList(o *Origin, elems []Value) *List {
	return &List{base: base{o}, elems: elems, status: StatusOf(elems...)}
}

func (l *List) Type() Type                   { return ListType }
func (l *List) ResolveStatus() ResolveStatus { return l.status }

// IgnoresFallbacks is true for resolved lists: lists replace rather than
// merge.
func (l *List) IgnoresFallbacks() bool { return l.status == Resolved }

func (l *List) WithOrigin(o *Origin) Value {
	return &List{base: base{o}, elems: l.elems, status: l.status}
}

func (l *List) Relativized(prefix *Path) Value {
	elems := make([]Value, len(l.elems))
	for i, e := range l.elems {
		elems[i] = e.Relativized(prefix)
	}
	return NewList(l.origin, elems)
}

func (l *List) Len() int          { return len(l.elems) }
func (l *List) Get(i int) Value   { return l.elems[i] }
func (l *List) Elements() []Value { return append([]Value(nil), l.elems...) }

// Concatenate appends other's elements; the origin is the merge of both.
func (l *List) Concatenate(other *List) *List {
	elems := make([]Value, 0, len(l.elems)+len(other.elems))
	elems = append(elems, l.elems...)
	elems = append(elems, other.elems...)
	return NewList(MergeOrigins(l.origin, other.origin), elems)
}

// WithElements replaces the elements keeping the origin.
func (l *List) WithElements(elems []Value) *List {
	return NewList(l.origin, elems)
}

func (l *List) Unwrapped() any {
	u, _ := Unwrap(l)
	return u
}

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
