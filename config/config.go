package config

import (
	"fmt"

	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
	"github.com/signadot/go-hocon/resolve"
)

// Config is an immutable view of a root object addressed by path
// expressions.  Every edit returns a new Config.
type Config struct {
	root *ir.Object
}

func New(root *ir.Object) *Config {
	if root == nil {
		root = ir.EmptyObject()
	}
	return &Config{root: root}
}

// Empty returns a config with no settings.  desc names its origin when
// set.
func Empty(desc string) *Config {
	if desc == "" {
		return New(ir.EmptyObject())
	}
	return New(ir.NewObject(ir.NewOrigin(desc), map[string]ir.Value{}))
}

func ParseString(s string, opts ...parse.ParseOption) (*Config, error) {
	root, err := parse.ParseString(s, opts...)
	if err != nil {
		return nil, err
	}
	return New(root), nil
}

func ParseFile(filename string, opts ...parse.ParseOption) (*Config, error) {
	root, err := parse.ParseFile(filename, opts...)
	if err != nil {
		return nil, err
	}
	return New(root), nil
}

// FromMap builds a config from Go values.  Keys are single keys, not path
// expressions.
func FromMap(m map[string]any, desc string) (*Config, error) {
	if desc == "" {
		desc = "hardcoded value"
	}
	v, err := ir.FromAny(m, ir.NewOrigin(desc))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*ir.Object)
	if !ok {
		return nil, fmt.Errorf("%w: map converted to %s", ir.ErrBugOrBroken, v.Type())
	}
	return New(obj), nil
}

func (c *Config) Root() *ir.Object   { return c.root }
func (c *Config) Origin() *ir.Origin { return c.root.Origin() }
func (c *Config) IsEmpty() bool      { return c.root.Len() == 0 }
func (c *Config) IsResolved() bool   { return c.root.ResolveStatus() == ir.Resolved }
func (c *Config) String() string     { return "Config(" + c.root.String() + ")" }

// Resolve replaces every substitution, using the environment as a last
// resort.
func (c *Config) Resolve() (*Config, error) {
	return c.ResolveOptions(resolve.DefaultOptions())
}

func (c *Config) ResolveOptions(opts resolve.Options) (*Config, error) {
	return c.ResolveWithOptions(c, opts)
}

// ResolveWith resolves the substitutions in c against source.  source is
// not itself resolved or merged into the result.
func (c *Config) ResolveWith(source *Config) (*Config, error) {
	return c.ResolveWithOptions(source, resolve.DefaultOptions())
}

func (c *Config) ResolveWithOptions(source *Config, opts resolve.Options) (*Config, error) {
	if c.IsResolved() {
		return c, nil
	}
	v, err := resolve.ResolveWith(c.root, source.root, opts)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*ir.Object)
	if !ok {
		return nil, fmt.Errorf("%w: resolved root to %v", ir.ErrBugOrBroken, v)
	}
	return New(obj), nil
}

// WithFallback merges other beneath c.  Unresolved values merge lazily
// and settle at Resolve.
func (c *Config) WithFallback(other *Config) *Config {
	return c.WithFallbackValue(other.root)
}

func (c *Config) WithFallbackValue(v ir.Value) *Config {
	merged := ir.WithFallback(c.root, v)
	obj, ok := merged.(*ir.Object)
	if !ok {
		// a delayed merge object at the root cannot arise from two objects
		panic(fmt.Errorf("%w: merged root is %T", ir.ErrBugOrBroken, merged))
	}
	return New(obj)
}

// HasPath reports whether a non-null value exists at path.  Only the
// values on the way to path are resolved, so it works on unresolved
// configs.
func (c *Config) HasPath(path string) (bool, error) {
	v, err := c.peek(path)
	if err != nil {
		return false, err
	}
	return v != nil && v.Type() != ir.NullType, nil
}

// HasPathOrNull is HasPath counting null values as present.
func (c *Config) HasPathOrNull(path string) (bool, error) {
	v, err := c.peek(path)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (c *Config) peek(path string) (ir.Value, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	if c.IsResolved() {
		return ir.PeekPath(c.root, p)
	}
	return resolve.ResolvePath(c.root, p, resolve.DefaultOptions())
}

// WithValue sets the value at path.  v may be an ir.Value or anything
// ir.FromAny accepts.
func (c *Config) WithValue(path string, v any) (*Config, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	val, ok := v.(ir.Value)
	if !ok {
		val, err = ir.FromAny(v, ir.NewOrigin("hardcoded value"))
		if err != nil {
			return nil, badValueError(nil, path, err)
		}
	}
	return New(c.root.WithValue(p, val)), nil
}

func (c *Config) WithoutPath(path string) (*Config, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return New(c.root.WithoutPath(p)), nil
}

func (c *Config) WithOnlyPath(path string) (*Config, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return New(c.root.WithOnlyPath(p)), nil
}

// AtPath places the whole config at path in a new config.
func (c *Config) AtPath(path string) (*Config, error) {
	p, err := parse.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return New(ir.AtPath(c.root, p, c.Origin())), nil
}

// AtKey places the whole config under a single key.
func (c *Config) AtKey(key string) *Config {
	return New(ir.AtKey(c.root, key, c.Origin()))
}

// Entry is a leaf setting.
type Entry struct {
	Path  string
	Value ir.Value
}

// Entries lists every non-object, non-null setting by rendered path, in
// path order.
func (c *Config) Entries() []Entry {
	var res []Entry
	var walk func(prefix *ir.Path, obj *ir.Object)
	walk = func(prefix *ir.Path, obj *ir.Object) {
		for _, k := range obj.Keys() {
			p := prefix.Append(k)
			switch v := obj.Get(k).(type) {
			case *ir.Object:
				walk(p, v)
			case *ir.Null:
			default:
				res = append(res, Entry{Path: p.Render(), Value: v})
			}
		}
	}
	walk(nil, c.root)
	return res
}

// Unwrapped returns the config as plain Go values.
func (c *Config) Unwrapped() (map[string]any, error) {
	u, err := ir.Unwrap(c.root)
	if err != nil {
		return nil, err
	}
	return u.(map[string]any), nil
}

// Equal compares two resolved configs structurally.
func (c *Config) Equal(other *Config) bool {
	return ir.Equal(c.root, other.root)
}
