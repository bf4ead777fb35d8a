package parse

import (
	"strings"

	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/token"
)

var apiOrigin = ir.NewOrigin("path parameter")

// ParsePath parses a path expression such as a.b."c.d".  Quoted elements
// are never split on periods.
func ParsePath(s string) (*ir.Path, error) {
	if p := fastParsePath(s); p != nil {
		return p, nil
	}
	toks, err := token.Tokenize([]byte(s), apiOrigin, format.ConfFormat)
	if err != nil {
		return nil, badPathError(apiOrigin, s, "%s", err)
	}
	// drop start and end
	return parsePathExpression(toks[1:len(toks)-1], apiOrigin, s)
}

// fastParsePath handles the common case of plain dotted keys.
func fastParsePath(s string) *ir.Path {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ".")
	for _, k := range keys {
		if k == "" {
			return nil
		}
		for i, c := range k {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			case i > 0 && (c >= '0' && c <= '9' || c == '-'):
			default:
				return nil
			}
		}
	}
	return ir.NewPath(keys...)
}

type pathElement struct {
	sb         strings.Builder
	canBeEmpty bool
}

func addPathText(buf []*pathElement, wasQuoted bool, text string) []*pathElement {
	for {
		i := -1
		if !wasQuoted {
			i = strings.IndexByte(text, '.')
		}
		current := buf[len(buf)-1]
		if i < 0 {
			current.sb.WriteString(text)
			if wasQuoted && current.sb.Len() == 0 {
				current.canBeEmpty = true
			}
			return buf
		}
		current.sb.WriteString(text[:i])
		buf = append(buf, &pathElement{})
		text = text[i+1:]
		wasQuoted = false
	}
}

func parsePathExpression(toks []token.Token, origin *ir.Origin, text string) (*ir.Path, error) {
	if len(toks) == 0 {
		return nil, badPathError(origin, text, "expecting a field name or path here, but got nothing")
	}
	buf := []*pathElement{{}}
	for i := range toks {
		t := &toks[i]
		switch t.Type {
		case token.TValue:
			if s, ok := t.Value.(*ir.String); ok {
				buf = addPathText(buf, true, s.Value())
				continue
			}
			// numbers and keywords split on periods like unquoted text
			s, ok := ir.TransformToString(t.Value)
			if !ok {
				return nil, badPathError(origin, text, "token not allowed in path expression: %s", t)
			}
			buf = addPathText(buf, false, s)
		case token.TUnquoted:
			buf = addPathText(buf, false, t.Text())
		case token.TEnd:
		default:
			return nil, badPathError(origin, text,
				"token not allowed in path expression: %s (you can double-quote this token if you really want it here)", t)
		}
	}
	keys := make([]string, len(buf))
	for i, e := range buf {
		if e.sb.Len() == 0 && !e.canBeEmpty {
			return nil, badPathError(origin, text,
				"path has a leading, trailing, or two adjacent period '.' (use quoted \"\" empty string if you want an empty element)")
		}
		keys[i] = e.sb.String()
	}
	return ir.NewPath(keys...), nil
}
