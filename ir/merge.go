package ir

import "github.com/signadot/go-hocon/debug"

// WithFallback merges fallback beneath v: keys present in v win, objects
// merge recursively and anything else in v hides the fallback entirely.
// Merges involving unresolved values are recorded as delayed merges.
func WithFallback(v, fallback Value) Value {
	if v.IgnoresFallbacks() {
		if debug.Merge() {
			debug.Logf("merge: %s ignores fallback %s", v, fallback)
		}
		return v
	}
	switch fb := fallback.(type) {
	case Unmergeable:
		return mergedWithUnmergeable(v, fb)
	case *Object:
		return mergedWithObject(v, fb)
	default:
		return mergedWithNonObject(v, fallback)
	}
}

// Merge folds values with WithFallback, first value highest priority.
// It returns nil for no values.
func Merge(vs ...Value) Value {
	if len(vs) == 0 {
		return nil
	}
	res := vs[0]
	for _, v := range vs[1:] {
		res = WithFallback(res, v)
	}
	return res
}

func stackOf(v Value) []Value {
	if ms, ok := v.(MergeStack); ok {
		return ms.Stack()
	}
	return []Value{v}
}

func delayMerge(v Value, stack []Value) Value {
	if debug.Merge() {
		debug.Logf("merge: delaying merge of %d values %s", len(stack), stackString(stack))
	}
	o := mergeValueOrigins(stack)
	if isObjectValue(v) {
		return newDelayedMergeObject(o, stack)
	}
	return newDelayedMerge(o, stack)
}

func mergedWithUnmergeable(v Value, fallback Unmergeable) Value {
	stack := stackOf(v)
	stack = append(stack, fallback.UnmergedValues()...)
	return delayMerge(v, stack)
}

func mergedWithObject(v Value, fallback *Object) Value {
	if obj, ok := v.(*Object); ok {
		return mergeObjects(obj, fallback)
	}
	return mergedWithNonObject(v, fallback)
}

func mergedWithNonObject(v Value, fallback Value) Value {
	if v.ResolveStatus() == Resolved {
		if obj, ok := v.(*Object); ok {
			return obj.withFallbacksIgnored()
		}
		// resolved non-objects already ignore fallbacks
		return v
	}
	return delayMerge(v, append(stackOf(v), fallback))
}

func mergeObjects(obj, fallback *Object) *Object {
	changed := false
	merged := make(map[string]Value, len(obj.m)+len(fallback.m))
	for k, first := range obj.m {
		kept := first
		if second, ok := fallback.m[k]; ok {
			kept = WithFallback(first, second)
		}
		if kept != first {
			changed = true
		}
		merged[k] = kept
	}
	for k, second := range fallback.m {
		if _, ok := obj.m[k]; ok {
			continue
		}
		merged[k] = second
		changed = true
	}
	status := objectStatus(merged)
	ignores := fallback.ignoresFallbacks
	switch {
	case changed:
		return newObject(mergeValueOrigins([]Value{obj, fallback}), merged, status, ignores)
	case status != obj.status || ignores != obj.ignoresFallbacks:
		return newObject(obj.origin, obj.m, status, ignores)
	default:
		return obj
	}
}
