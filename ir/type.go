package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ListType
	// UnresolvedType is reported by references, concatenations and
	// non-object merge stacks, whose type is only known after resolution.
	UnresolvedType
)

var typeNames = [...]string{
	NullType:       "Null",
	NumberType:     "Number",
	StringType:     "String",
	BoolType:       "Bool",
	ObjectType:     "Object",
	ListType:       "List",
	UnresolvedType: "Unresolved",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for i, name := range typeNames {
		if name == string(d) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized value type %q", d)
}

// IsCollection reports whether values of type t hold other values.
func (t Type) IsCollection() bool {
	return t == ObjectType || t == ListType
}

type ResolveStatus int

const (
	Resolved ResolveStatus = iota
	Unresolved
)

func (s ResolveStatus) String() string {
	if s == Resolved {
		return "Resolved"
	}
	return "Unresolved"
}

// StatusOf is Resolved only when every value is.
func StatusOf(vs ...Value) ResolveStatus {
	for _, v := range vs {
		if v.ResolveStatus() == Unresolved {
			return Unresolved
		}
	}
	return Resolved
}
