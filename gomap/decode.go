// Package gomap decodes configuration values into Go values.
//
// Struct fields are matched to keys by a hocon tag or, failing that, by
// the field name as written, in lower camel case or in kebab case:
//
//	type Server struct {
//		Host    string        `hocon:"host"`
//		Timeout time.Duration // "Timeout", "timeout"
//		MaxBody int64         `hocon:"max-body,bytes"`
//		Proxy   *Proxy        `hocon:",optional"`
//	}
//
// Durations accept numbers of milliseconds and unit strings; fields
// tagged bytes accept size strings.  A missing or null key is an error
// unless the field is tagged optional, in which case it is left alone.
package gomap

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/signadot/go-hocon/config"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	valueType    = reflect.TypeOf((*ir.Value)(nil)).Elem()
	configType   = reflect.TypeOf((*config.Config)(nil))
)

// Decode fills out, a non-nil pointer, from the root of c.
func Decode(c *config.Config, out any) error {
	return decodeInto(c.Root(), nil, out)
}

// DecodePath fills out from the value at path.
func DecodePath(c *config.Config, path string, out any) error {
	v, err := c.GetValue(path)
	if err != nil {
		return err
	}
	p, err := parse.ParsePath(path)
	if err != nil {
		return err
	}
	return decodeInto(v, p, out)
}

func decodeInto(v ir.Value, path *ir.Path, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode needs a non-nil pointer, got %T", ir.ErrBugOrBroken, out)
	}
	if v.ResolveStatus() != ir.Resolved {
		return fmt.Errorf("%w: decode needs a resolved config", config.ErrNotResolved)
	}
	d := &decoder{}
	return d.value(v, path, rv.Elem(), fieldOpts{})
}

type fieldOpts struct {
	name     string
	optional bool
	bytes    bool
}

func parseTag(tag string) fieldOpts {
	name, rest, _ := strings.Cut(tag, ",")
	res := fieldOpts{name: name}
	for _, o := range strings.Split(rest, ",") {
		switch o {
		case "optional":
			res.optional = true
		case "bytes":
			res.bytes = true
		}
	}
	return res
}

type decoder struct{}

func render(path *ir.Path) string {
	if path == nil {
		return ""
	}
	return path.Render()
}

func wrongType(v ir.Value, path *ir.Path, want string) error {
	return &config.Error{
		Origin: v.Origin(),
		Path:   render(path),
		Msg:    fmt.Sprintf("%s has type %s rather than %s", render(path), strings.ToUpper(v.Type().String()), want),
		Err:    config.ErrWrongType,
	}
}

func badValue(v ir.Value, path *ir.Path, err error) error {
	return &config.Error{
		Origin: v.Origin(),
		Path:   render(path),
		Msg:    fmt.Sprintf("invalid value at '%s': %v", render(path), err),
		Err:    config.ErrBadValue,
	}
}

func (d *decoder) value(v ir.Value, path *ir.Path, out reflect.Value, fo fieldOpts) error {
	switch out.Type() {
	case valueType:
		out.Set(reflect.ValueOf(v))
		return nil
	case configType:
		obj, ok := v.(*ir.Object)
		if !ok {
			return wrongType(v, path, "OBJECT")
		}
		out.Set(reflect.ValueOf(config.New(obj)))
		return nil
	case durationType:
		return d.duration(v, path, out)
	}
	if v.Type() == ir.NullType {
		out.SetZero()
		return nil
	}
	switch out.Kind() {
	case reflect.Pointer:
		if out.IsNil() {
			out.Set(reflect.New(out.Type().Elem()))
		}
		return d.value(v, path, out.Elem(), fo)
	case reflect.Interface:
		if out.Type().NumMethod() != 0 {
			return fmt.Errorf("%w: cannot decode into %s", ir.ErrBugOrBroken, out.Type())
		}
		u, err := ir.Unwrap(v)
		if err != nil {
			return err
		}
		if u != nil {
			out.Set(reflect.ValueOf(u))
		}
		return nil
	case reflect.Struct:
		obj, ok := v.(*ir.Object)
		if !ok {
			return wrongType(v, path, "OBJECT")
		}
		return d.structFields(obj, path, out)
	case reflect.Map:
		obj, ok := v.(*ir.Object)
		if !ok {
			return wrongType(v, path, "OBJECT")
		}
		if out.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map keys must be strings, got %s", ir.ErrBugOrBroken, out.Type())
		}
		m := reflect.MakeMapWithSize(out.Type(), obj.Len())
		for _, k := range obj.Keys() {
			elem := reflect.New(out.Type().Elem()).Elem()
			if err := d.value(obj.Get(k), path.Append(k), elem, fo); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(out.Type().Key()), elem)
		}
		out.Set(m)
		return nil
	case reflect.Slice:
		lv := ir.Transform(v, ir.ListType)
		l, ok := lv.(*ir.List)
		if !ok {
			return wrongType(v, path, "LIST")
		}
		s := reflect.MakeSlice(out.Type(), l.Len(), l.Len())
		for i, e := range l.Elements() {
			if err := d.value(e, path.Append(fmt.Sprint(i)), s.Index(i), fo); err != nil {
				return err
			}
		}
		out.Set(s)
		return nil
	case reflect.String:
		s, ok := ir.Transform(v, ir.StringType).(*ir.String)
		if !ok {
			return wrongType(v, path, "STRING")
		}
		out.SetString(s.Value())
		return nil
	case reflect.Bool:
		b, ok := ir.Transform(v, ir.BoolType).(*ir.Bool)
		if !ok {
			return wrongType(v, path, "BOOLEAN")
		}
		out.SetBool(b.Value())
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.integer(v, path, fo)
		if err != nil {
			return err
		}
		if out.OverflowInt(n) {
			return badValue(v, path, fmt.Errorf("%d overflows %s", n, out.Type()))
		}
		out.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := d.integer(v, path, fo)
		if err != nil {
			return err
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return badValue(v, path, fmt.Errorf("%d overflows %s", n, out.Type()))
		}
		out.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		n, ok := ir.Transform(v, ir.NumberType).(*ir.Number)
		if !ok {
			return wrongType(v, path, "NUMBER")
		}
		if out.OverflowFloat(n.Float64()) {
			return badValue(v, path, fmt.Errorf("%s overflows %s", n.Text(), out.Type()))
		}
		out.SetFloat(n.Float64())
		return nil
	}
	return fmt.Errorf("%w: cannot decode into %s", ir.ErrBugOrBroken, out.Type())
}

func (d *decoder) integer(v ir.Value, path *ir.Path, fo fieldOpts) (int64, error) {
	if fo.bytes {
		if s, ok := v.(*ir.String); ok {
			n, err := config.ParseBytes(s.Value())
			if err != nil {
				return 0, badValue(v, path, err)
			}
			return n, nil
		}
	}
	n, ok := ir.Transform(v, ir.NumberType).(*ir.Number)
	if !ok {
		return 0, wrongType(v, path, "NUMBER")
	}
	i, ok := n.Int64InRange()
	if !ok || !n.IsWhole() {
		return 0, badValue(v, path, fmt.Errorf("%s is not a whole number in range", n.Text()))
	}
	return i, nil
}

func (d *decoder) duration(v ir.Value, path *ir.Path, out reflect.Value) error {
	switch x := v.(type) {
	case *ir.Number:
		ms := x.Float64()
		if ms > float64(math.MaxInt64/int64(time.Millisecond)) || ms < float64(math.MinInt64/int64(time.Millisecond)) {
			return badValue(v, path, fmt.Errorf("%s milliseconds overflows a duration", x.Text()))
		}
		out.SetInt(int64(ms * float64(time.Millisecond)))
		return nil
	case *ir.String:
		dur, err := config.ParseDuration(x.Value())
		if err != nil {
			return badValue(v, path, err)
		}
		out.SetInt(int64(dur))
		return nil
	}
	return wrongType(v, path, "DURATION")
}

func (d *decoder) structFields(obj *ir.Object, path *ir.Path, out reflect.Value) error {
	ty := out.Type()
	for i := range ty.NumField() {
		f := ty.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, hasTag := f.Tag.Lookup("hocon")
		if tag == "-" {
			continue
		}
		fo := parseTag(tag)
		if f.Anonymous && !hasTag && f.Type.Kind() == reflect.Struct {
			if err := d.structFields(obj, path, out.Field(i)); err != nil {
				return err
			}
			continue
		}
		key, v := lookupField(obj, f.Name, fo.name)
		fp := path.Append(key)
		if v == nil || v.Type() == ir.NullType {
			if fo.optional {
				continue
			}
			if v == nil {
				return &config.Error{
					Origin: obj.Origin(),
					Path:   fp.Render(),
					Msg:    fmt.Sprintf("no configuration setting found for key '%s'", fp.Render()),
					Err:    config.ErrMissing,
				}
			}
			return &config.Error{
				Origin: v.Origin(),
				Path:   fp.Render(),
				Msg:    fmt.Sprintf("configuration key '%s' is set to null but expected %s", fp.Render(), f.Type),
				Err:    config.ErrNull,
			}
		}
		if err := d.value(v, fp, out.Field(i), fo); err != nil {
			return err
		}
	}
	return nil
}

// lookupField finds the key for a field, returning the tag name or the
// lower camel case name when nothing matches.
func lookupField(obj *ir.Object, field, tagName string) (string, ir.Value) {
	if tagName != "" {
		return tagName, obj.Get(tagName)
	}
	lower := lowerFirst(field)
	for _, k := range []string{field, lower, kebab(field)} {
		if v := obj.Get(k); v != nil {
			return k, v
		}
	}
	return lower, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// kebab turns MaxBodySize into max-body-size.
func kebab(s string) string {
	sb := &strings.Builder{}
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
