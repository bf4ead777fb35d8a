package ir

import (
	"strconv"
	"strings"
)

// Transform attempts the lenient conversions getters allow: strings to
// numbers, booleans and null, scalars to strings and objects with numeric
// keys to lists.  Values that cannot be converted are returned unchanged.
func Transform(v Value, requested Type) Value {
	switch x := v.(type) {
	case *String:
		s := x.s
		switch requested {
		case NumberType:
			if n, err := ParseNumber(x.origin, s); err == nil {
				return n
			}
		case NullType:
			if s == "null" {
				return NewNull(x.origin)
			}
		case BoolType:
			switch strings.ToLower(s) {
			case "true", "yes", "on":
				return NewBool(x.origin, true)
			case "false", "no", "off":
				return NewBool(x.origin, false)
			}
		}
	case *Number:
		if requested == StringType {
			return NewString(x.origin, x.text)
		}
	case *Bool:
		if requested == StringType {
			return NewString(x.origin, strconv.FormatBool(x.v))
		}
	case *Object:
		if requested == ListType {
			if l, ok := objectToList(x); ok {
				return l
			}
		}
	}
	return v
}
