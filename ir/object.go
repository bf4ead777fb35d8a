package ir

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ObjectValue is implemented by *Object and *DelayedMergeObject, the two
// values of ObjectType.
type ObjectValue interface {
	Value
	// AttemptPeekWithPartialResolve looks up key without resolving.  It
	// fails with ErrNotResolved when the answer depends on an unresolved
	// layer.
	AttemptPeekWithPartialResolve(key string) (Value, error)
	objectValue()
}

type Object struct {
	base
	m                map[string]Value
	status           ResolveStatus
	ignoresFallbacks bool
}

// NewObject takes ownership of m.
func NewObject(o *Origin, m map[string]Value) *Object {
	if m == nil {
		m = map[string]Value{}
	}
	return newObject(o, m, objectStatus(m), false)
}

func newObject(o *Origin, m map[string]Value, status ResolveStatus, ignoresFallbacks bool) *Object {
	return &Object{base: base{o}, m: m, status: status, ignoresFallbacks: ignoresFallbacks}
}

func objectStatus(m map[string]Value) ResolveStatus {
	for _, v := range m {
		if v.ResolveStatus() == Unresolved {
			return Unresolved
		}
	}
	return Resolved
}

var (
	emptyOnce   sync.Once
	emptyObject *Object
	emptyList   *List
)

func initEmpty() {
	emptyObject = NewObject(NewOrigin("empty config"), nil)
	emptyList = NewList(NewOrigin("empty list"), nil)
}

// EmptyObject is the shared empty object.
func EmptyObject() *Object {
	emptyOnce.Do(initEmpty)
	return emptyObject
}

// EmptyList is the shared empty list.
func EmptyList() *List {
	emptyOnce.Do(initEmpty)
	return emptyList
}

func (obj *Object) Type() Type                   { return ObjectType }
func (obj *Object) ResolveStatus() ResolveStatus { return obj.status }
func (obj *Object) IgnoresFallbacks() bool       { return obj.ignoresFallbacks }
func (obj *Object) objectValue()                 {}

func (obj *Object) WithOrigin(o *Origin) Value {
	return newObject(o, obj.m, obj.status, obj.ignoresFallbacks)
}

func (obj *Object) withFallbacksIgnored() *Object {
	if obj.ignoresFallbacks {
		return obj
	}
	return newObject(obj.origin, obj.m, obj.status, true)
}

func (obj *Object) Relativized(prefix *Path) Value {
	m := make(map[string]Value, len(obj.m))
	for k, v := range obj.m {
		m[k] = v.Relativized(prefix)
	}
	return newObject(obj.origin, m, obj.status, obj.ignoresFallbacks)
}

func (obj *Object) AttemptPeekWithPartialResolve(key string) (Value, error) {
	return obj.m[key], nil
}

func (obj *Object) Len() int { return len(obj.m) }

// Get returns the value under key, nil when absent.
func (obj *Object) Get(key string) Value { return obj.m[key] }

// Keys returns the keys in sorted order.
func (obj *Object) Keys() []string {
	keys := make([]string, 0, len(obj.m))
	for k := range obj.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Map returns a copy of the key to value map.
func (obj *Object) Map() map[string]Value {
	m := make(map[string]Value, len(obj.m))
	for k, v := range obj.m {
		m[k] = v
	}
	return m
}

// WithMap returns an object with the same origin and flags over m.
func (obj *Object) WithMap(m map[string]Value) *Object {
	return newObject(obj.origin, m, objectStatus(m), obj.ignoresFallbacks)
}

func (obj *Object) Unwrapped() any {
	u, _ := Unwrap(obj)
	return u
}

func (obj *Object) String() string {
	parts := make([]string, 0, len(obj.m))
	for _, k := range obj.Keys() {
		parts = append(parts, RenderKey(k)+":"+obj.m[k].String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// PeekPath walks path through objects without resolving anything.  The
// result is nil if some key is absent or a non-object is in the way.
func PeekPath(v Value, p *Path) (Value, error) {
	obj, ok := v.(ObjectValue)
	if !ok || p == nil {
		return nil, nil
	}
	child, err := obj.AttemptPeekWithPartialResolve(p.first)
	if err != nil {
		return nil, fmt.Errorf("%w (while looking up %q in %s)", err, p.Render(), v.Origin().Description())
	}
	if p.remainder == nil || child == nil {
		return child, nil
	}
	return PeekPath(child, p.remainder)
}

// WithoutKey returns obj with key removed.
func (obj *Object) WithoutKey(key string) *Object {
	if _, ok := obj.m[key]; !ok {
		return obj
	}
	m := obj.Map()
	delete(m, key)
	return newObject(obj.origin, m, objectStatus(m), obj.ignoresFallbacks)
}

// WithOnlyKey keeps only key, or is empty if key is absent.
func (obj *Object) WithOnlyKey(key string) *Object {
	return obj.WithOnlyPath(NewPath(key))
}

// WithKey sets key to v.
func (obj *Object) WithKey(key string, v Value) *Object {
	if v == nil {
		panic("WithKey with nil value")
	}
	m := obj.Map()
	m[key] = v
	return newObject(obj.origin, m, objectStatus(m), obj.ignoresFallbacks)
}

// WithValue sets the value at path, creating intermediate objects and
// replacing non-objects in the way.
func (obj *Object) WithValue(p *Path, v Value) *Object {
	key, next := p.first, p.remainder
	if next == nil {
		return obj.WithKey(key, v)
	}
	if child, ok := obj.m[key].(*Object); ok {
		return obj.WithKey(key, child.WithValue(next, v))
	}
	return obj.WithKey(key, AtPath(v, next, v.Origin()))
}

// WithoutPath removes the value at path.  Missing paths are ignored.
func (obj *Object) WithoutPath(p *Path) *Object {
	key, next := p.first, p.remainder
	if next == nil {
		return obj.WithoutKey(key)
	}
	child, ok := obj.m[key].(*Object)
	if !ok {
		return obj
	}
	return obj.WithKey(key, child.WithoutPath(next))
}

// WithOnlyPath keeps only the value at path and the objects leading to it.
// The result is empty if path is absent.
func (obj *Object) WithOnlyPath(p *Path) *Object {
	res := obj.withOnlyPathOrNil(p)
	if res == nil {
		return newObject(obj.origin, map[string]Value{}, Resolved, false)
	}
	return res
}

func (obj *Object) withOnlyPathOrNil(p *Path) *Object {
	key, next := p.first, p.remainder
	v, ok := obj.m[key]
	if !ok {
		return nil
	}
	if next != nil {
		child, isObj := v.(*Object)
		if !isObj {
			return nil
		}
		sub := child.withOnlyPathOrNil(next)
		if sub == nil {
			return nil
		}
		v = sub
	}
	m := map[string]Value{key: v}
	return newObject(obj.origin, m, objectStatus(m), obj.ignoresFallbacks)
}

// AtPath wraps v in single-key objects so that it sits at path.
func AtPath(v Value, p *Path, o *Origin) *Object {
	if o == nil {
		o = NewOrigin("atPath(" + p.Render() + ")")
	}
	keys := p.Keys()
	res := NewObject(o, map[string]Value{keys[len(keys)-1]: v})
	for i := len(keys) - 2; i >= 0; i-- {
		res = NewObject(o, map[string]Value{keys[i]: res})
	}
	return res
}

// AtKey wraps v in a single-key object.
func AtKey(v Value, key string, o *Origin) *Object {
	return AtPath(v, NewPath(key), o)
}
