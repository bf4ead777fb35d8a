package encode

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/signadot/go-hocon/ir"
)

type EncState struct {
	sb     strings.Builder
	indent int

	json           bool
	formatted      bool
	comments       bool
	originComments bool

	Color func(ir.Type, ColorAttr, string) string
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 4, formatted: true}
	for _, opt := range opts {
		opt(es)
	}
	if es.json || !es.formatted {
		es.comments = false
		es.originComments = false
	}
	return es
}

// Encode writes v to w.  An object at the root is written without braces
// unless rendering JSON.
func Encode(v ir.Value, w io.Writer, opts ...EncodeOption) error {
	s, err := Render(v, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func Render(v ir.Value, opts ...EncodeOption) (string, error) {
	es := newEncState(opts)
	if err := es.value(v, 0, true); err != nil {
		return "", err
	}
	if es.formatted && !strings.HasSuffix(es.sb.String(), "\n") {
		es.sb.WriteByte('\n')
	}
	return es.sb.String(), nil
}

func (es *EncState) write(t ir.Type, attr ColorAttr, s string) {
	if es.Color != nil {
		s = es.Color(t, attr, s)
	}
	es.sb.WriteString(s)
}

func (es *EncState) nl() {
	if es.formatted {
		es.sb.WriteByte('\n')
	}
}

func (es *EncState) writeIndent(depth int) {
	if es.formatted {
		es.sb.WriteString(strings.Repeat(" ", es.indent*depth))
	}
}

func (es *EncState) writeComments(v ir.Value, depth int) {
	o := v.Origin()
	if o == nil {
		return
	}
	if es.originComments {
		for _, ln := range strings.Split(o.Description(), "\n") {
			es.writeIndent(depth)
			es.write(v.Type(), CommentColor, "# "+ln)
			es.nl()
		}
	}
	if es.comments {
		for _, c := range o.Comments() {
			if !strings.HasPrefix(c, " ") {
				c = " " + c
			}
			es.writeIndent(depth)
			es.write(v.Type(), CommentColor, "#"+c)
			es.nl()
		}
	}
}

func (es *EncState) value(v ir.Value, depth int, atRoot bool) error {
	switch x := v.(type) {
	case *ir.Object:
		return es.object(x, depth, atRoot)
	case *ir.List:
		return es.list(x, depth)
	case *ir.String:
		es.write(ir.StringType, ValueColor, es.quote(x.Value()))
	case *ir.Number:
		es.write(ir.NumberType, ValueColor, x.Text())
	case *ir.Bool:
		es.write(ir.BoolType, ValueColor, strconv.FormatBool(x.Value()))
	case *ir.Null:
		es.write(ir.NullType, ValueColor, "null")
	case *ir.Reference:
		es.write(ir.UnresolvedType, ValueColor, x.Expression().String())
	case *ir.Concatenation:
		for _, p := range x.Pieces() {
			if err := es.value(p, depth, false); err != nil {
				return err
			}
		}
	case ir.MergeStack:
		return es.mergeStack("", x, depth)
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
	return nil
}

func (es *EncState) quote(s string) string {
	if es.json {
		return ir.Quote(s)
	}
	return renderUnquotedIfPossible(s)
}

// renderUnquotedIfPossible leaves s bare when it would read back as the
// same string.
func renderUnquotedIfPossible(s string) string {
	if s == "" {
		return ir.Quote(s)
	}
	first := []rune(s)[0]
	if unicode.IsDigit(first) || first == '-' {
		return ir.Quote(s)
	}
	for _, kw := range []string{"include", "true", "false", "null"} {
		if strings.HasPrefix(s, kw) {
			return ir.Quote(s)
		}
	}
	if strings.Contains(s, "//") {
		return ir.Quote(s)
	}
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' {
			return ir.Quote(s)
		}
	}
	return s
}

func (es *EncState) key(t ir.Type, k string) {
	es.write(t, FieldColor, es.quote(k))
}

func (es *EncState) keySep(v ir.Value) {
	switch {
	case es.json && es.formatted:
		es.write(v.Type(), SepColor, ": ")
	case es.json:
		es.write(v.Type(), SepColor, ":")
	case v.Type() == ir.ObjectType:
		if es.formatted {
			es.sb.WriteByte(' ')
		}
	case es.formatted:
		es.write(v.Type(), SepColor, " = ")
	default:
		es.write(v.Type(), SepColor, "=")
	}
}

// fieldSep goes between object fields.  HOCON allows newlines alone.
func (es *EncState) fieldSep(t ir.Type, last bool) {
	if !last && (es.json || !es.formatted) {
		es.write(t, SepColor, ",")
	}
	es.nl()
}

// sortKeys orders numeric keys numerically, before all others.
func sortKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		an, aerr := strconv.ParseUint(a, 10, 64)
		bn, berr := strconv.ParseUint(b, 10, 64)
		switch {
		case aerr == nil && berr == nil:
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return strings.Compare(a, b)
		case aerr == nil:
			return -1
		case berr == nil:
			return 1
		}
		return strings.Compare(a, b)
	})
}

func (es *EncState) object(obj *ir.Object, depth int, atRoot bool) error {
	if obj.Len() == 0 {
		es.write(ir.ObjectType, SepColor, "{}")
		return nil
	}
	outer := es.json || !atRoot
	inner := depth
	if outer {
		inner = depth + 1
		es.write(ir.ObjectType, SepColor, "{")
		es.nl()
	}
	keys := obj.Keys()
	sortKeys(keys)
	for i, k := range keys {
		v := obj.Get(k)
		last := i == len(keys)-1
		if ms, ok := v.(ir.MergeStack); ok {
			if err := es.mergeStack(k, ms, inner); err != nil {
				return err
			}
			es.fieldSep(ir.ObjectType, last)
			continue
		}
		es.writeComments(v, inner)
		es.writeIndent(inner)
		es.key(v.Type(), k)
		es.keySep(v)
		if err := es.value(v, inner, false); err != nil {
			return err
		}
		es.fieldSep(ir.ObjectType, last)
	}
	if outer {
		es.writeIndent(depth)
		es.write(ir.ObjectType, SepColor, "}")
	}
	return nil
}

func (es *EncState) list(l *ir.List, depth int) error {
	if l.Len() == 0 {
		es.write(ir.ListType, SepColor, "[]")
		return nil
	}
	es.write(ir.ListType, SepColor, "[")
	es.nl()
	for i, e := range l.Elements() {
		es.writeComments(e, depth+1)
		es.writeIndent(depth + 1)
		if err := es.value(e, depth+1, false); err != nil {
			return err
		}
		if i < l.Len()-1 {
			es.write(ir.ListType, SepColor, ",")
		}
		es.nl()
	}
	es.writeIndent(depth)
	es.write(ir.ListType, SepColor, "]")
	return nil
}

// mergeStack writes each layer of an unresolved merge, lowest priority
// first, so that reading the text back applies them in the same order.
// With key empty the layers are written as bare values.
func (es *EncState) mergeStack(key string, ms ir.MergeStack, depth int) error {
	stack := ms.Stack()
	diag := es.comments || es.originComments
	if diag {
		es.writeIndent(depth)
		es.write(ir.UnresolvedType, MergeColor, fmt.Sprintf("# unresolved merge of %d values follows (", len(stack)))
		es.nl()
	}
	for i := len(stack) - 1; i >= 0; i-- {
		v := stack[i]
		if diag {
			es.writeIndent(depth)
			n := len(stack) - 1 - i
			if key != "" {
				es.write(ir.UnresolvedType, MergeColor, fmt.Sprintf("#     unmerged value %d for key %s from %s", n, ir.Quote(key), v.Origin().Description()))
			} else {
				es.write(ir.UnresolvedType, MergeColor, fmt.Sprintf("#     unmerged value %d from %s", n, v.Origin().Description()))
			}
			es.nl()
		}
		es.writeComments(v, depth)
		es.writeIndent(depth)
		if key != "" {
			es.key(v.Type(), key)
			es.keySep(v)
		}
		if err := es.value(v, depth, false); err != nil {
			return err
		}
		if i > 0 {
			if key != "" {
				es.fieldSep(ir.ObjectType, false)
			} else {
				es.write(ir.UnresolvedType, SepColor, ",")
				es.nl()
			}
		}
	}
	if diag {
		es.nl()
		es.writeIndent(depth)
		es.write(ir.UnresolvedType, MergeColor, "# ) end of unresolved merge")
	}
	return nil
}
