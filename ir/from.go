package ir

import (
	"fmt"
	"reflect"
	"time"
)

// FromAny converts plain Go data into a value tree.  Map keys are
// rendered as strings; durations become milliseconds.  Values are passed
// through.
func FromAny(v any, o *Origin) (Value, error) {
	if o == nil {
		o = NewOrigin("hardcoded value")
	}
	switch x := v.(type) {
	case nil:
		return NewNull(o), nil
	case Value:
		return x, nil
	case bool:
		return NewBool(o, x), nil
	case string:
		return NewString(o, x), nil
	case time.Duration:
		return NewInt(o, x.Milliseconds(), ""), nil
	case time.Time:
		return NewString(o, x.Format(time.RFC3339Nano)), nil
	case int:
		return NewInt(o, int64(x), ""), nil
	case int64:
		return NewInt(o, x, ""), nil
	case float64:
		return NewFloat(o, x, ""), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromAny(e, o)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return NewList(o, elems), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := FromAny(e, o)
			if err != nil {
				return nil, err
			}
			m[k] = ev
		}
		return NewObject(o, m), nil
	}
	return fromReflect(reflect.ValueOf(v), o)
}

func fromReflect(rv reflect.Value, o *Origin) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewNull(o), nil
		}
		return FromAny(rv.Elem().Interface(), o)
	case reflect.Bool:
		return NewBool(o, rv.Bool()), nil
	case reflect.String:
		return NewString(o, rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(o, rv.Int(), ""), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return NewFloat(o, float64(u), ""), nil
		}
		return NewInt(o, int64(u), ""), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(o, rv.Float(), ""), nil
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			ev, err := FromAny(rv.Index(i).Interface(), o)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return NewList(o, elems), nil
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := FromAny(iter.Value().Interface(), o)
			if err != nil {
				return nil, err
			}
			m[mapKey(iter.Key())] = ev
		}
		return NewObject(o, m), nil
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return NewString(o, s.String()), nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T to a config value", ErrBugOrBroken, rv.Interface())
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
