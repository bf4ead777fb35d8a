package ir

import (
	"fmt"
	"strings"
)

// DelayedMerge is a merge stack, highest priority first, that could not
// be merged before resolution.
type DelayedMerge struct {
	base
	stack []Value
}

// DelayedMergeObject is a DelayedMerge known to produce an object.
type DelayedMergeObject struct {
	base
	stack []Value
}

// MergeStack is implemented by both delayed merge variants.
type MergeStack interface {
	Unmergeable
	Stack() []Value
	// WithStack returns the same variant over a new stack.
	WithStack(stack []Value) Value
}

func checkStack(stack []Value) {
	if len(stack) == 0 {
		panic(bugf("creating empty delayed merge value"))
	}
	for _, v := range stack {
		if _, ok := v.(MergeStack); ok {
			panic(bugf("placed nested delayed merge in a delayed merge, should have consolidated stack"))
		}
	}
}

func newDelayedMerge(o *Origin, stack []Value) *DelayedMerge {
	checkStack(stack)
	return &DelayedMerge{base: base{o}, stack: stack}
}

func newDelayedMergeObject(o *Origin, stack []Value) *DelayedMergeObject {
	checkStack(stack)
	if !isObjectValue(stack[0]) {
		panic(bugf("created a delayed merge object not guaranteed to be an object"))
	}
	return &DelayedMergeObject{base: base{o}, stack: stack}
}

func stackString(stack []Value) string {
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = v.String()
	}
	return "merge(" + strings.Join(parts, ", ") + ")"
}

func relativizedStack(stack []Value, prefix *Path) []Value {
	res := make([]Value, len(stack))
	for i, v := range stack {
		res[i] = v.Relativized(prefix)
	}
	return res
}

func (d *DelayedMerge) Type() Type                   { return UnresolvedType }
func (d *DelayedMerge) ResolveStatus() ResolveStatus { return Unresolved }
func (d *DelayedMerge) IgnoresFallbacks() bool       { return d.stack[len(d.stack)-1].IgnoresFallbacks() }
func (d *DelayedMerge) UnmergedValues() []Value      { return d.Stack() }
func (d *DelayedMerge) Stack() []Value               { return append([]Value(nil), d.stack...) }
func (d *DelayedMerge) String() string               { return stackString(d.stack) }

func (d *DelayedMerge) WithStack(stack []Value) Value {
	return newDelayedMerge(d.origin, stack)
}

func (d *DelayedMerge) WithOrigin(o *Origin) Value {
	return &DelayedMerge{base: base{o}, stack: d.stack}
}

func (d *DelayedMerge) Relativized(prefix *Path) Value {
	return newDelayedMerge(d.origin, relativizedStack(d.stack, prefix))
}

func (d *DelayedMergeObject) Type() Type                   { return ObjectType }
func (d *DelayedMergeObject) ResolveStatus() ResolveStatus { return Unresolved }
func (d *DelayedMergeObject) IgnoresFallbacks() bool {
	return d.stack[len(d.stack)-1].IgnoresFallbacks()
}
func (d *DelayedMergeObject) UnmergedValues() []Value { return d.Stack() }
func (d *DelayedMergeObject) Stack() []Value          { return append([]Value(nil), d.stack...) }
func (d *DelayedMergeObject) String() string          { return stackString(d.stack) }
func (d *DelayedMergeObject) objectValue()            {}

func (d *DelayedMergeObject) WithStack(stack []Value) Value {
	return newDelayedMergeObject(d.origin, stack)
}

func (d *DelayedMergeObject) WithOrigin(o *Origin) Value {
	return &DelayedMergeObject{base: base{o}, stack: d.stack}
}

func (d *DelayedMergeObject) Relativized(prefix *Path) Value {
	return newDelayedMergeObject(d.origin, relativizedStack(d.stack, prefix))
}

// AttemptPeekWithPartialResolve finds key if some object layer holds a
// value for it that ignores fallbacks before any unmergeable layer.
func (d *DelayedMergeObject) AttemptPeekWithPartialResolve(key string) (Value, error) {
	for _, layer := range d.stack {
		switch l := layer.(type) {
		case *Object:
			v := l.m[key]
			if v != nil && v.IgnoresFallbacks() {
				return v, nil
			}
			// keep looking: absent here, or needs merging with later layers
		case Unmergeable:
			return nil, fmt.Errorf("%w: key %q is not available at %q because value at %q has not been resolved and may turn out to contain or hide %q",
				ErrNotResolved, key, d.origin.Description(), layer.Origin().Description(), key)
		default:
			if layer.ResolveStatus() == Unresolved {
				if _, ok := layer.(*List); !ok {
					return nil, bugf("expecting a list here, not %s", layer)
				}
				return nil, nil
			}
			if !layer.IgnoresFallbacks() {
				return nil, bugf("resolved non-object should ignore fallbacks")
			}
			return nil, nil
		}
	}
	return nil, bugf("delayed merge stack does not contain any unmergeable values")
}
