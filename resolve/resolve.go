package resolve

import (
	"errors"
	"fmt"

	"github.com/signadot/go-hocon/ir"
)

// Resolver supplies values for substitutions that are found neither in
// the resolve source nor in the environment.  Paths have any include
// prefix already removed.
type Resolver interface {
	Lookup(path *ir.Path) (ir.Value, bool)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(path *ir.Path) (ir.Value, bool)

func (f ResolverFunc) Lookup(path *ir.Path) (ir.Value, bool) { return f(path) }

type Options struct {
	// UseEnv falls back to environment variables for substitutions
	// missing from the source.
	UseEnv bool
	// AllowUnresolved leaves missing substitutions in place instead of
	// failing.
	AllowUnresolved bool
	// Fallback is consulted last.
	Fallback Resolver
	// Env overrides the environment snapshot used when UseEnv is set.
	Env *ir.Object
}

// DefaultOptions uses the environment and requires every substitution to
// resolve.
func DefaultOptions() Options {
	return Options{UseEnv: true}
}

func (o Options) env() *ir.Object {
	if o.Env != nil {
		return o.Env
	}
	return Env()
}

// Resolve resolves root against itself.
func Resolve(root *ir.Object, opts Options) (*ir.Object, error) {
	v, err := ResolveWith(root, root, opts)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*ir.Object)
	if !ok {
		return nil, fmt.Errorf("%w: resolved object to %T", ir.ErrBugOrBroken, v)
	}
	return obj, nil
}

// ResolveWith resolves v, looking substitutions up in source.  The result
// is nil when v is only optional substitutions that have no value.
func ResolveWith(v ir.Value, source *ir.Object, opts Options) (ir.Value, error) {
	if v.ResolveStatus() == ir.Resolved {
		return v, nil
	}
	c := NewContext(source, opts)
	res, err := c.Resolve(v)
	return res, outermost(err)
}

// ResolvePath resolves only what is needed to produce the value at path
// in root.  It returns nil when there is no value there.
func ResolvePath(root *ir.Object, path *ir.Path, opts Options) (ir.Value, error) {
	if root.ResolveStatus() == ir.Resolved {
		return ir.PeekPath(root, path)
	}
	c := NewContext(root, opts)
	v, err := c.peekPath(root, path)
	if err != nil || v == nil {
		return nil, outermost(err)
	}
	res, err := c.Resolve(v)
	return res, outermost(err)
}

func outermost(err error) error {
	if err == nil {
		return nil
	}
	var np *notPossibleToResolve
	if errors.As(err, &np) {
		return fmt.Errorf("%w: cycle escaped the outermost resolve: %s", ir.ErrBugOrBroken, np.Error())
	}
	return err
}
