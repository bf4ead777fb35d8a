package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Concatenation is a sequence of adjacent values that could not be
// joined before resolution because at least one is unmergeable.
type Concatenation struct {
	base
	pieces []Value
}

func newConcatenation(o *Origin, pieces []Value) *Concatenation {
	if len(pieces) < 2 {
		panic(bugf("concatenation with %d pieces", len(pieces)))
	}
	hadUnmergeable := false
	for _, p := range pieces {
		switch p.(type) {
		case *Concatenation:
			panic(bugf("nested concatenation"))
		case Unmergeable:
			hadUnmergeable = true
		}
	}
	if !hadUnmergeable {
		panic(bugf("concatenation without an unmergeable piece"))
	}
	return &Concatenation{base: base{o}, pieces: pieces}
}

func (c *Concatenation) Type() Type                   { return UnresolvedType }
func (c *Concatenation) ResolveStatus() ResolveStatus { return Unresolved }

// IgnoresFallbacks is always false: a self-referential piece needs the
// layers beneath.
func (c *Concatenation) IgnoresFallbacks() bool  { return false }
func (c *Concatenation) UnmergedValues() []Value { return []Value{c} }
func (c *Concatenation) Pieces() []Value         { return append([]Value(nil), c.pieces...) }

func (c *Concatenation) WithOrigin(o *Origin) Value {
	return &Concatenation{base: base{o}, pieces: c.pieces}
}

func (c *Concatenation) Relativized(prefix *Path) Value {
	pieces := make([]Value, len(c.pieces))
	for i, p := range c.pieces {
		pieces[i] = p.Relativized(prefix)
	}
	return &Concatenation{base: c.base, pieces: pieces}
}

func (c *Concatenation) String() string {
	parts := make([]string, len(c.pieces))
	for i, p := range c.pieces {
		parts[i] = p.String()
	}
	return strings.Join(parts, "")
}

func isObjectValue(v Value) bool {
	_, ok := v.(ObjectValue)
	return ok
}

func isWhitespaceString(v Value) bool {
	s, ok := v.(*String)
	return ok && s.WasUnquotedWhitespace()
}

// join appends right to the consolidated pieces in builder, combining it
// with the last piece when the two types allow.
func join(builder []Value, origRight Value) ([]Value, error) {
	left := builder[len(builder)-1]
	right := origRight

	// objects with numeric keys act as lists next to a list
	if lo, ok := left.(*Object); ok {
		if _, ok := right.(*List); ok {
			if l, ok := objectToList(lo); ok {
				left = l
			}
		}
	}
	if ro, ok := right.(*Object); ok {
		if _, ok := left.(*List); ok {
			if l, ok := objectToList(ro); ok {
				right = l
			}
		}
	}

	var joined Value
	switch {
	case isObjectValue(left) && isObjectValue(right):
		joined = WithFallback(right, left)
	case isList(left) && isList(right):
		joined = left.(*List).Concatenate(right.(*List))
	case isCollection(left) && isWhitespaceString(right):
		joined = left
	case isWhitespaceString(left) && isCollection(right):
		joined = right
	case isConcatenation(left) || isConcatenation(right):
		panic(bugf("unflattened concatenation"))
	case isUnmergeable(left) || isUnmergeable(right):
	default:
		ls, lok := transformToString(left)
		rs, rok := transformToString(right)
		if !lok || !rok {
			return nil, &WrongTypeError{
				Origin: left.Origin(),
				Msg: fmt.Sprintf("cannot concatenate object or list with a non-object-or-list, %s and %s are not compatible",
					left, right),
			}
		}
		o := MergeOrigins(left.Origin(), right.Origin())
		joined = NewString(o, ls+rs)
	}
	if joined == nil {
		return append(builder, right), nil
	}
	builder[len(builder)-1] = joined
	return builder, nil
}

func isList(v Value) bool {
	_, ok := v.(*List)
	return ok
}

func isCollection(v Value) bool {
	return isList(v) || isObjectValue(v)
}

func isConcatenation(v Value) bool {
	_, ok := v.(*Concatenation)
	return ok
}

func isUnmergeable(v Value) bool {
	_, ok := v.(Unmergeable)
	return ok
}

// Consolidate joins adjacent pieces wherever possible.  Nested
// concatenations are flattened first.
func Consolidate(pieces []Value) ([]Value, error) {
	if len(pieces) < 2 {
		return pieces, nil
	}
	flat := make([]Value, 0, len(pieces))
	for _, p := range pieces {
		if c, ok := p.(*Concatenation); ok {
			flat = append(flat, c.pieces...)
		} else {
			flat = append(flat, p)
		}
	}
	var (
		consolidated []Value
		err          error
	)
	for _, p := range flat {
		if len(consolidated) == 0 {
			consolidated = append(consolidated, p)
			continue
		}
		consolidated, err = join(consolidated, p)
		if err != nil {
			return nil, err
		}
	}
	return consolidated, nil
}

// Concatenate consolidates pieces and returns the single remaining value,
// a Concatenation when unmergeable pieces remain, or nil when pieces is
// empty.
func Concatenate(pieces []Value) (Value, error) {
	consolidated, err := Consolidate(pieces)
	if err != nil {
		return nil, err
	}
	switch len(consolidated) {
	case 0:
		return nil, nil
	case 1:
		return consolidated[0], nil
	}
	origins := make([]*Origin, len(consolidated))
	for i, p := range consolidated {
		origins[i] = p.Origin()
	}
	return newConcatenation(MergeOrigins(origins...), consolidated), nil
}

// NewConcatenationUnchecked builds a concatenation from already
// consolidated pieces, as left over by an incomplete resolve.
func NewConcatenationUnchecked(o *Origin, pieces []Value) *Concatenation {
	return newConcatenation(o, pieces)
}

// objectToList converts an object whose keys are non-negative integers
// into a list ordered by key.  Gaps are allowed and other keys ignored.
func objectToList(obj *Object) (*List, bool) {
	type entry struct {
		i int
		v Value
	}
	var entries []entry
	for k, v := range obj.m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			continue
		}
		entries = append(entries, entry{i, v})
	}
	if len(entries) == 0 {
		return nil, false
	}
	slices.SortFunc(entries, func(a, b entry) int { return a.i - b.i })
	elems := make([]Value, len(entries))
	for i, e := range entries {
		elems[i] = e.v
	}
	return NewList(obj.origin, elems), true
}
