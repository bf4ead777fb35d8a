package ir

// Equal compares two trees structurally.  Origins and the quoted flag of
// strings are ignored; numbers compare by value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.v == y.v
	case *Number:
		y, ok := b.(*Number)
		if !ok {
			return false
		}
		if x.IsWhole() && y.IsWhole() {
			return x.Int64() == y.Int64()
		}
		return x.Float64() == y.Float64()
	case *String:
		y, ok := b.(*String)
		return ok && x.s == y.s
	case *List:
		y, ok := b.(*List)
		return ok && equalValues(x.elems, y.elems)
	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.m) != len(y.m) {
			return false
		}
		for k, v := range x.m {
			w, ok := y.m[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case *Reference:
		y, ok := b.(*Reference)
		return ok && x.prefixLength == y.prefixLength && x.expr.Equal(y.expr)
	case *Concatenation:
		y, ok := b.(*Concatenation)
		return ok && equalValues(x.pieces, y.pieces)
	case *DelayedMerge:
		y, ok := b.(*DelayedMerge)
		return ok && equalValues(x.stack, y.stack)
	case *DelayedMergeObject:
		y, ok := b.(*DelayedMergeObject)
		return ok && equalValues(x.stack, y.stack)
	}
	return false
}

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
