package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/go-hocon/debug"
	"github.com/signadot/go-hocon/ir"
)

// Context carries the state of one resolve: memoized results, values
// temporarily replaced while they are being resolved and the chain of
// substitutions being looked up.
//
// A Context may be restricted to a path, in which case resolving an
// object only resolves the child on that path.
type Context struct {
	s        *state
	restrict *ir.Path
}

type state struct {
	opts   Options
	source *ir.Object
	memos  map[memoKey]ir.Value
	// replacements maps a value to a stack of stand-ins used while the
	// value is resolved.
	replacements map[ir.Value][]*replacer
	// merging counts active delayed merge stand-ins.  Results computed
	// while one is active may embed the stand-in and are not memoized.
	merging int
	trace   []string
	depth   int
}

type memoKey struct {
	v        ir.Value
	restrict string
}

// replacer produces a stand-in for a value.  A nil make marks a cycle.
type replacer struct {
	make func() (ir.Value, error)
	done bool
	v    ir.Value
}

func NewContext(source *ir.Object, opts Options) *Context {
	return &Context{s: &state{
		opts:         opts,
		source:       source,
		memos:        map[memoKey]ir.Value{},
		replacements: map[ir.Value][]*replacer{},
	}}
}

func (c *Context) Options() Options      { return c.s.opts }
func (c *Context) Restriction() *ir.Path { return c.restrict }

func (c *Context) restrictTo(p *ir.Path) *Context {
	if p == c.restrict {
		return c
	}
	return &Context{s: c.s, restrict: p}
}

func (c *Context) unrestricted() *Context {
	return c.restrictTo(nil)
}

func (c *Context) replace(v ir.Value, r *replacer) {
	c.s.replacements[v] = append(c.s.replacements[v], r)
	if r.make != nil {
		c.s.merging++
	}
}

func (c *Context) unreplace(v ir.Value) {
	stack := c.s.replacements[v]
	if len(stack) == 0 {
		panic(fmt.Errorf("%w: unreplace without replace of %s", ir.ErrBugOrBroken, v))
	}
	if stack[len(stack)-1].make != nil {
		c.s.merging--
	}
	if len(stack) == 1 {
		delete(c.s.replacements, v)
		return
	}
	c.s.replacements[v] = stack[:len(stack)-1]
}

func (c *Context) replacement(v ir.Value) (ir.Value, error) {
	stack := c.s.replacements[v]
	if len(stack) == 0 {
		return v, nil
	}
	r := stack[len(stack)-1]
	if r.make == nil {
		return nil, c.notPossible()
	}
	if !r.done {
		nv, err := r.make()
		if err != nil {
			return nil, err
		}
		r.v, r.done = nv, true
	}
	return r.v, nil
}

func (c *Context) notPossible() *notPossibleToResolve {
	return &notPossibleToResolve{trace: append([]string(nil), c.s.trace...)}
}

func (c *Context) memoKeys(v ir.Value) (full, restricted memoKey) {
	full = memoKey{v: v}
	if c.restrict != nil {
		restricted = memoKey{v: v, restrict: c.restrict.Render()}
	}
	return
}

// Resolve resolves v against the context's source.  The result is nil
// when v reduces to nothing, as an optional substitution with no value
// does.
func (c *Context) Resolve(v ir.Value) (ir.Value, error) {
	if v.ResolveStatus() == ir.Resolved {
		return v, nil
	}
	r, err := c.replacement(v)
	if err != nil {
		return nil, err
	}
	if r != v {
		if debug.Resolve() {
			c.logf("replaced %s with %s", v, r)
		}
		return c.Resolve(r)
	}
	full, restricted := c.memoKeys(v)
	if res, ok := c.s.memos[full]; ok {
		return res, nil
	}
	if c.restrict != nil {
		if res, ok := c.s.memos[restricted]; ok {
			return res, nil
		}
	}
	if debug.Resolve() {
		c.logf("resolving %s (restrict %s)", v, c.restrict)
	}
	c.s.depth++
	res, err := c.resolveValue(v)
	c.s.depth--
	if err != nil {
		return nil, err
	}
	memo := c.s.merging == 0
	switch {
	case res == nil || res.ResolveStatus() == ir.Resolved:
		if memo {
			c.s.memos[full] = res
		}
	case c.restrict != nil:
		if memo {
			c.s.memos[restricted] = res
		}
	case c.s.opts.AllowUnresolved:
		if memo {
			c.s.memos[full] = res
		}
	default:
		return nil, fmt.Errorf("%w: resolving %s did not give a resolved value", ir.ErrBugOrBroken, v)
	}
	if debug.Resolve() {
		c.logf("resolved %s to %v", v, res)
	}
	return res, nil
}

func (c *Context) resolveValue(v ir.Value) (ir.Value, error) {
	switch x := v.(type) {
	case *ir.Reference:
		return c.resolveReference(x)
	case *ir.Concatenation:
		return c.resolveConcatenation(x)
	case ir.MergeStack:
		return c.resolveMergeStack(x)
	case *ir.Object:
		return c.resolveObject(x)
	case *ir.List:
		return c.resolveList(x)
	}
	return v, nil
}

func (c *Context) resolveReference(r *ir.Reference) (ir.Value, error) {
	expr := r.Expression()
	c.replace(r, &replacer{})
	v, err := c.lookup(expr, r.PrefixLength())
	c.unreplace(r)
	if err != nil {
		var np *notPossibleToResolve
		if !errors.As(err, &np) {
			return nil, err
		}
		if !expr.Optional() {
			return nil, &UnresolvedSubstitutionError{Origin: r.Origin(), Expr: expr.String(), Cycle: np.trace}
		}
		v = nil
	}
	if v == nil && !expr.Optional() {
		if c.s.opts.AllowUnresolved {
			return r, nil
		}
		return nil, &UnresolvedSubstitutionError{Origin: r.Origin(), Expr: expr.String()}
	}
	return v, nil
}

// lookup finds expr in the source, then relative to the root of an
// include, then in the environment and finally in the fallback resolver.
func (c *Context) lookup(expr ir.SubstitutionExpression, prefixLength int) (ir.Value, error) {
	c.s.trace = append(c.s.trace, expr.String())
	defer func() { c.s.trace = c.s.trace[:len(c.s.trace)-1] }()

	v, err := c.peekPath(c.s.source, expr.Path())
	if err != nil {
		return nil, err
	}
	if v == nil {
		unprefixed := expr.Path()
		if prefixLength > 0 {
			if p := unprefixed.SubPath(prefixLength, -1); p != nil {
				unprefixed = p
			}
			c.s.trace[len(c.s.trace)-1] = expr.ChangePath(unprefixed).String()
			v, err = c.peekPath(c.s.source, unprefixed)
			if err != nil {
				return nil, err
			}
		}
		if v == nil && c.s.opts.UseEnv {
			v, err = ir.PeekPath(c.s.opts.env(), unprefixed)
			if err != nil {
				return nil, err
			}
		}
		if v == nil && c.s.opts.Fallback != nil {
			if fv, ok := c.s.opts.Fallback.Lookup(unprefixed); ok {
				v = fv
			}
		}
	}
	if v == nil {
		return nil, nil
	}
	return c.Resolve(v)
}

// peekPath resolves obj along path only and returns the value found
// there, itself unresolved.
func (c *Context) peekPath(obj *ir.Object, path *ir.Path) (ir.Value, error) {
	partial, err := c.restrictTo(path).Resolve(obj)
	if err != nil {
		return nil, err
	}
	if _, ok := partial.(ir.ObjectValue); !ok {
		return nil, fmt.Errorf("%w: resolved object %s to non-object %v", ir.ErrBugOrBroken, obj, partial)
	}
	return ir.PeekPath(partial, path)
}

func (c *Context) resolveObject(obj *ir.Object) (ir.Value, error) {
	m := obj.Map()
	for _, k := range obj.Keys() {
		child := m[k]
		var (
			res ir.Value
			err error
		)
		if c.restrict != nil {
			if k != c.restrict.First() || c.restrict.Remainder() == nil {
				// only the path is resolved and the leaf is left alone
				continue
			}
			res, err = c.restrictTo(c.restrict.Remainder()).Resolve(child)
		} else {
			res, err = c.Resolve(child)
		}
		if err != nil {
			return nil, err
		}
		if res == nil {
			delete(m, k)
			continue
		}
		m[k] = res
	}
	return obj.WithMap(m), nil
}

func (c *Context) resolveList(l *ir.List) (ir.Value, error) {
	if c.restrict != nil {
		// lists have no child paths
		return l, nil
	}
	elems := make([]ir.Value, 0, l.Len())
	for _, e := range l.Elements() {
		res, err := c.Resolve(e)
		if err != nil {
			return nil, err
		}
		if res != nil {
			elems = append(elems, res)
		}
	}
	return l.WithElements(elems), nil
}

func (c *Context) resolveConcatenation(cc *ir.Concatenation) (ir.Value, error) {
	// a concatenation only has a value once every piece is known
	u := c.unrestricted()
	var pieces []ir.Value
	for _, p := range cc.Pieces() {
		res, err := u.Resolve(p)
		if err != nil {
			return nil, err
		}
		if res != nil {
			pieces = append(pieces, res)
		}
	}
	joined, err := ir.Consolidate(pieces)
	if err != nil {
		return nil, err
	}
	switch {
	case len(joined) == 0:
		return nil, nil
	case len(joined) == 1:
		return joined[0], nil
	case c.s.opts.AllowUnresolved:
		return ir.NewConcatenationUnchecked(cc.Origin(), joined), nil
	}
	return nil, fmt.Errorf("%w: concatenation %s joined to %d values", ir.ErrBugOrBroken, cc, len(joined))
}

// resolveMergeStack resolves each layer and merges the results.  While
// an unmergeable layer is resolved, the merge itself stands for the
// layers beneath it, which is what a self-reference in that layer sees.
func (c *Context) resolveMergeStack(ms ir.MergeStack) (ir.Value, error) {
	stack := ms.Stack()
	var merged ir.Value
	for i, layer := range stack {
		if _, ok := layer.(ir.MergeStack); ok {
			return nil, fmt.Errorf("%w: delayed merge %s contains another", ir.ErrBugOrBroken, ms)
		}
		_, unmergeable := layer.(ir.Unmergeable)
		if unmergeable {
			below := stack[i+1:]
			c.replace(ms, &replacer{make: func() (ir.Value, error) {
				if len(below) == 0 {
					return nil, c.notPossible()
				}
				return ir.Merge(below...), nil
			}})
		}
		res, err := c.Resolve(layer)
		if unmergeable {
			c.unreplace(ms)
		}
		if err != nil {
			return nil, err
		}
		if res == nil {
			continue
		}
		if merged == nil {
			merged = res
		} else {
			merged = ir.WithFallback(merged, res)
		}
	}
	return merged, nil
}

func (c *Context) logf(format string, args ...any) {
	debug.Logf(strings.Repeat("  ", c.s.depth)+format, args...)
}
