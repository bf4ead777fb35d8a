package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

// anyType requests a value without conversion.
const anyType ir.Type = -1

func typeName(t ir.Type) string {
	return strings.ToUpper(t.String())
}

// find walks path one key at a time.  Intermediate values must be
// objects; the final value is transformed toward expected.  A null final
// value is returned as is.
func (c *Config) find(path string, expected ir.Type) (ir.Value, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	keys := p.Keys()
	var cur ir.Value = c.root
	for i, k := range keys {
		obj, ok := cur.(ir.ObjectValue)
		if !ok {
			return nil, fmt.Errorf("%w: walked into non-object at %s", ir.ErrBugOrBroken, path)
		}
		v, err := obj.AttemptPeekWithPartialResolve(k)
		if err != nil {
			return nil, fmt.Errorf("%w: need to resolve before reading %s", err, path)
		}
		sub := ir.NewPath(keys[:i+1]...).Render()
		if v == nil {
			return nil, missingError(cur.Origin(), sub)
		}
		if _, ok := v.(ir.Unmergeable); ok && v.Type() != ir.ObjectType {
			return nil, &Error{
				Origin: v.Origin(),
				Path:   sub,
				Msg:    fmt.Sprintf("value at '%s' needs to be resolved: %s", sub, v),
				Err:    ErrNotResolved,
			}
		}
		if i == len(keys)-1 {
			cur = v
			break
		}
		if v.Type() == ir.NullType {
			return nil, nullError(v.Origin(), sub, typeName(ir.ObjectType))
		}
		if v.Type() != ir.ObjectType {
			return nil, wrongTypeError(v.Origin(), sub, typeName(ir.ObjectType), typeName(v.Type()))
		}
		cur = v
	}
	if expected == anyType {
		return cur, nil
	}
	cur = ir.Transform(cur, expected)
	if cur.Type() != expected && cur.Type() != ir.NullType {
		return nil, wrongTypeError(cur.Origin(), path, typeName(expected), typeName(cur.Type()))
	}
	return cur, nil
}

// get is find with a null value reported as ErrNull.
func (c *Config) get(path string, expected ir.Type) (ir.Value, error) {
	v, err := c.find(path, expected)
	if err != nil {
		return nil, err
	}
	if v.Type() == ir.NullType && expected != ir.NullType {
		exp := ""
		if expected != anyType {
			exp = typeName(expected)
		}
		return nil, nullError(v.Origin(), path, exp)
	}
	return v, nil
}

// GetIsNull reports whether path holds null.  A missing path is an error.
func (c *Config) GetIsNull(path string) (bool, error) {
	v, err := c.find(path, anyType)
	if err != nil {
		return false, err
	}
	return v.Type() == ir.NullType, nil
}

func (c *Config) GetValue(path string) (ir.Value, error) {
	return c.get(path, anyType)
}

// GetAny returns the value at path as plain Go values.
func (c *Config) GetAny(path string) (any, error) {
	v, err := c.get(path, anyType)
	if err != nil {
		return nil, err
	}
	return ir.Unwrap(v)
}

func (c *Config) GetBool(path string) (bool, error) {
	v, err := c.get(path, ir.BoolType)
	if err != nil {
		return false, err
	}
	return v.(*ir.Bool).Value(), nil
}

func (c *Config) GetNumber(path string) (*ir.Number, error) {
	v, err := c.get(path, ir.NumberType)
	if err != nil {
		return nil, err
	}
	return v.(*ir.Number), nil
}

// GetInt fails when the value does not fit in 32 bits.
func (c *Config) GetInt(path string) (int, error) {
	n, err := c.GetNumber(path)
	if err != nil {
		return 0, err
	}
	return intRangeChecked(n, path)
}

func intRangeChecked(n *ir.Number, path string) (int, error) {
	i, ok := n.Int64InRange()
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, wrongTypeError(n.Origin(), path, "32-bit integer", "out-of-range value "+n.Text())
	}
	return int(i), nil
}

func (c *Config) GetInt64(path string) (int64, error) {
	n, err := c.GetNumber(path)
	if err != nil {
		return 0, err
	}
	return int64RangeChecked(n, path)
}

func int64RangeChecked(n *ir.Number, path string) (int64, error) {
	i, ok := n.Int64InRange()
	if !ok {
		return 0, wrongTypeError(n.Origin(), path, "64-bit integer", "out-of-range value "+n.Text())
	}
	return i, nil
}

func (c *Config) GetFloat64(path string) (float64, error) {
	n, err := c.GetNumber(path)
	if err != nil {
		return 0, err
	}
	return n.Float64(), nil
}

func (c *Config) GetString(path string) (string, error) {
	v, err := c.get(path, ir.StringType)
	if err != nil {
		return "", err
	}
	return v.(*ir.String).Value(), nil
}

func (c *Config) GetObject(path string) (*ir.Object, error) {
	v, err := c.get(path, ir.ObjectType)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*ir.Object)
	if !ok {
		return nil, &Error{Origin: v.Origin(), Path: path, Msg: fmt.Sprintf("object at '%s' needs to be resolved", path), Err: ErrNotResolved}
	}
	return obj, nil
}

func (c *Config) GetConfig(path string) (*Config, error) {
	obj, err := c.GetObject(path)
	if err != nil {
		return nil, err
	}
	return New(obj), nil
}

func (c *Config) GetList(path string) (*ir.List, error) {
	v, err := c.get(path, ir.ListType)
	if err != nil {
		return nil, err
	}
	return v.(*ir.List), nil
}

// GetAnyList returns the list at path as plain Go values.
func (c *Config) GetAnyList(path string) ([]any, error) {
	l, err := c.GetList(path)
	if err != nil {
		return nil, err
	}
	u, err := ir.Unwrap(l)
	if err != nil {
		return nil, err
	}
	return u.([]any), nil
}

// listOf converts every element of the list at path to expected and maps
// it with conv.
func listOf[T any](c *Config, path string, expected ir.Type, conv func(v ir.Value) (T, error)) ([]T, error) {
	l, err := c.GetList(path)
	if err != nil {
		return nil, err
	}
	res := make([]T, 0, l.Len())
	for _, e := range l.Elements() {
		v := e
		if expected != anyType {
			v = ir.Transform(e, expected)
			if v.Type() != expected {
				return nil, wrongTypeError(e.Origin(), path,
					"list of "+typeName(expected),
					"list of "+typeName(expected)+" with element of type "+typeName(e.Type()))
			}
		}
		t, err := conv(v)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

func (c *Config) GetBoolList(path string) ([]bool, error) {
	return listOf(c, path, ir.BoolType, func(v ir.Value) (bool, error) {
		return v.(*ir.Bool).Value(), nil
	})
}

func (c *Config) GetNumberList(path string) ([]*ir.Number, error) {
	return listOf(c, path, ir.NumberType, func(v ir.Value) (*ir.Number, error) {
		return v.(*ir.Number), nil
	})
}

func (c *Config) GetIntList(path string) ([]int, error) {
	return listOf(c, path, ir.NumberType, func(v ir.Value) (int, error) {
		return intRangeChecked(v.(*ir.Number), path)
	})
}

func (c *Config) GetInt64List(path string) ([]int64, error) {
	return listOf(c, path, ir.NumberType, func(v ir.Value) (int64, error) {
		return int64RangeChecked(v.(*ir.Number), path)
	})
}

func (c *Config) GetFloat64List(path string) ([]float64, error) {
	return listOf(c, path, ir.NumberType, func(v ir.Value) (float64, error) {
		return v.(*ir.Number).Float64(), nil
	})
}

func (c *Config) GetStringList(path string) ([]string, error) {
	return listOf(c, path, ir.StringType, func(v ir.Value) (string, error) {
		return v.(*ir.String).Value(), nil
	})
}

func (c *Config) GetObjectList(path string) ([]*ir.Object, error) {
	return listOf(c, path, ir.ObjectType, func(v ir.Value) (*ir.Object, error) {
		obj, ok := v.(*ir.Object)
		if !ok {
			return nil, &Error{Origin: v.Origin(), Path: path, Msg: fmt.Sprintf("list at '%s' needs to be resolved", path), Err: ErrNotResolved}
		}
		return obj, nil
	})
}

func (c *Config) GetConfigList(path string) ([]*Config, error) {
	objs, err := c.GetObjectList(path)
	if err != nil {
		return nil, err
	}
	res := make([]*Config, len(objs))
	for i, obj := range objs {
		res[i] = New(obj)
	}
	return res, nil
}

// GetDuration reads a duration string, or a number of milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, err := c.get(path, anyType)
	if err != nil {
		return 0, err
	}
	return durationOf(v, path)
}

func durationOf(v ir.Value, path string) (time.Duration, error) {
	switch x := v.(type) {
	case *ir.Number:
		ms := x.Float64() * float64(time.Millisecond)
		if ms >= 0x1p63 || ms < -0x1p63 {
			return 0, badValueError(x.Origin(), path, fmt.Errorf("duration %s ms is out of range", x.Text()))
		}
		if x.IsFloat() {
			return time.Duration(ms), nil
		}
		return time.Duration(x.Int64()) * time.Millisecond, nil
	case *ir.String:
		d, err := ParseDuration(x.Value())
		if err != nil {
			return 0, badValueError(x.Origin(), path, err)
		}
		return d, nil
	}
	return 0, wrongTypeError(v.Origin(), path, "duration string or number of milliseconds", typeName(v.Type()))
}

func (c *Config) GetMilliseconds(path string) (int64, error) {
	d, err := c.GetDuration(path)
	return d.Milliseconds(), err
}

func (c *Config) GetNanoseconds(path string) (int64, error) {
	d, err := c.GetDuration(path)
	return d.Nanoseconds(), err
}

func (c *Config) GetDurationList(path string) ([]time.Duration, error) {
	return listOf(c, path, anyType, func(v ir.Value) (time.Duration, error) {
		return durationOf(v, path)
	})
}

func (c *Config) GetMillisecondsList(path string) ([]int64, error) {
	return listOf(c, path, anyType, func(v ir.Value) (int64, error) {
		d, err := durationOf(v, path)
		return d.Milliseconds(), err
	})
}

func (c *Config) GetNanosecondsList(path string) ([]int64, error) {
	return listOf(c, path, anyType, func(v ir.Value) (int64, error) {
		d, err := durationOf(v, path)
		return d.Nanoseconds(), err
	})
}

// GetBytes reads a size string, or a number of bytes.
func (c *Config) GetBytes(path string) (int64, error) {
	v, err := c.get(path, anyType)
	if err != nil {
		return 0, err
	}
	return bytesOf(v, path)
}

func bytesOf(v ir.Value, path string) (int64, error) {
	switch x := v.(type) {
	case *ir.Number:
		return int64RangeChecked(x, path)
	case *ir.String:
		n, err := ParseBytes(x.Value())
		if err != nil {
			return 0, badValueError(x.Origin(), path, err)
		}
		return n, nil
	}
	return 0, wrongTypeError(v.Origin(), path, "memory size string or number of bytes", typeName(v.Type()))
}

func (c *Config) GetBytesList(path string) ([]int64, error) {
	return listOf(c, path, anyType, func(v ir.Value) (int64, error) {
		return bytesOf(v, path)
	})
}
