package config

import (
	"fmt"
	"strings"

	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

// CheckValid compares c against reference and reports every setting
// that is missing or of an incompatible type as a *ValidationError.
// With paths, only the settings under those paths are compared.  Both
// configs must be resolved.
//
// Settings absent from reference are not checked, and null matches any
// type on either side.  Strings are accepted wherever a scalar is
// expected.
func (c *Config) CheckValid(reference *Config, paths ...string) error {
	if !reference.IsResolved() {
		return fmt.Errorf("%w: reference config must be resolved before CheckValid", ir.ErrBugOrBroken)
	}
	if !c.IsResolved() {
		return &Error{Origin: c.Origin(), Msg: "config must be resolved before CheckValid", Err: ErrNotResolved}
	}
	var problems []ValidationProblem
	if len(paths) == 0 {
		problems = checkObject(nil, reference.root, c.root, problems)
	}
	for _, s := range paths {
		p, err := parse.ParsePath(s)
		if err != nil {
			return err
		}
		ref, err := ir.PeekPath(reference.root, p)
		if err != nil {
			return err
		}
		if ref == nil {
			continue
		}
		v, err := ir.PeekPath(c.root, p)
		if err != nil {
			return err
		}
		if v == nil {
			problems = addMissing(problems, ref, p, c.Origin())
			continue
		}
		problems = checkValue(p, ref, v, problems)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkObject(path *ir.Path, ref, obj *ir.Object, problems []ValidationProblem) []ValidationProblem {
	for _, k := range ref.Keys() {
		child := path.Append(k)
		v := obj.Get(k)
		if v == nil {
			problems = addMissing(problems, ref.Get(k), child, obj.Origin())
			continue
		}
		problems = checkValue(child, ref.Get(k), v, problems)
	}
	return problems
}

func checkValue(path *ir.Path, ref, v ir.Value, problems []ValidationProblem) []ValidationProblem {
	if !compatible(ref, v) {
		return addWrongType(problems, ref, v, path)
	}
	switch r := ref.(type) {
	case *ir.Object:
		if o, ok := v.(*ir.Object); ok {
			return checkObject(path, r, o, problems)
		}
	case *ir.List:
		switch x := v.(type) {
		case *ir.List:
			return checkList(path, r, x, problems)
		case *ir.Object:
			if l, ok := ir.Transform(x, ir.ListType).(*ir.List); ok {
				return checkList(path, r, l, problems)
			}
			return addWrongType(problems, ref, v, path)
		}
	}
	return problems
}

func checkList(path *ir.Path, ref, l *ir.List, problems []ValidationProblem) []ValidationProblem {
	if ref.Len() == 0 || l.Len() == 0 {
		return problems
	}
	refElem := ref.Get(0)
	for _, e := range l.Elements() {
		if !compatible(refElem, e) {
			// one problem per list is enough
			return append(problems, ValidationProblem{
				Path:   path.Render(),
				Origin: e.Origin(),
				Problem: fmt.Sprintf("list at '%s' contains wrong value type, expecting list of %s but got element of type %s",
					path.Render(), describe(refElem), describe(e)),
			})
		}
	}
	return problems
}

func couldBeNull(v ir.Value) bool {
	return ir.Transform(v, ir.NullType).Type() == ir.NullType
}

func compatible(ref, v ir.Value) bool {
	if couldBeNull(ref) || couldBeNull(v) {
		return true
	}
	switch ref.Type() {
	case ir.ObjectType:
		return v.Type() == ir.ObjectType
	case ir.ListType:
		// objects with numeric keys may convert
		return v.Type() == ir.ListType || v.Type() == ir.ObjectType
	case ir.StringType:
		// a string may stand for any scalar, as durations do
		return !v.Type().IsCollection()
	}
	if v.Type() == ir.StringType {
		return true
	}
	return ref.Type() == v.Type()
}

func describe(v ir.Value) string {
	if obj, ok := v.(*ir.Object); ok && obj.Len() > 0 {
		return "object with keys [" + strings.Join(obj.Keys(), ", ") + "]"
	}
	return strings.ToLower(v.Type().String())
}

func addMissing(problems []ValidationProblem, ref ir.Value, path *ir.Path, o *ir.Origin) []ValidationProblem {
	return append(problems, ValidationProblem{
		Path:    path.Render(),
		Origin:  o,
		Problem: fmt.Sprintf("no setting at '%s', expecting: %s", path.Render(), describe(ref)),
	})
}

func addWrongType(problems []ValidationProblem, ref, v ir.Value, path *ir.Path) []ValidationProblem {
	return append(problems, ValidationProblem{
		Path:    path.Render(),
		Origin:  v.Origin(),
		Problem: fmt.Sprintf("wrong value type at '%s', expecting: %s but got: %s", path.Render(), describe(ref), describe(v)),
	})
}
