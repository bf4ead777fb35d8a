package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/token"
)

// tokenWithComments is a token plus the comment lines that belong to it.
type tokenWithComments struct {
	token.Token
	comments []string
}

type parser struct {
	tz     *token.Tokenizer
	opts   *parseOpts
	syntax format.Format
	origin *ir.Origin

	// pushed back tokens, last is next
	buffer     []tokenWithComments
	lineNumber int
	pathStack  []*ir.Path
	arrayCount int
}

func newParser(d []byte, opts *parseOpts) *parser {
	return &parser{
		tz:         token.NewTokenizer(d, opts.origin, opts.syntax),
		opts:       opts,
		syntax:     opts.syntax,
		origin:     opts.origin,
		lineNumber: 1,
	}
}

func (p *parser) lineOrigin() *ir.Origin {
	return p.origin.WithLine(p.lineNumber)
}

func (p *parser) errorf(format string, args ...any) *Error {
	return newError(p.lineOrigin(), format, args...)
}

func (p *parser) putBack(t tokenWithComments) {
	p.buffer = append(p.buffer, t)
}

func (p *parser) popToken() tokenWithComments {
	if n := len(p.buffer); n > 0 {
		t := p.buffer[n-1]
		p.buffer = p.buffer[:n-1]
		return t
	}
	t := p.tz.Next()
	if t.Type == token.TComment {
		p.consolidateCommentBlock(t)
		return p.popToken()
	}
	tc := tokenWithComments{Token: t}
	if t.IsValueLike() {
		// a comment later on the same line belongs to this token
		nt := p.tz.Next()
		if nt.Type == token.TComment {
			tc.comments = append(tc.comments, nt.Text())
		} else {
			p.buffer = append(p.buffer, tokenWithComments{Token: nt})
		}
	}
	return tc
}

// consolidateCommentBlock attaches a run of comments to the token that
// follows them, unless a blank line separates them from it.  Comments
// before a closing brace or bracket are dropped.
func (p *parser) consolidateCommentBlock(first token.Token) {
	var (
		newlines    []tokenWithComments
		comments    []string
		prevNewline bool
	)
	next := first
	for {
		switch next.Type {
		case token.TNewline:
			if prevNewline {
				comments = nil
			}
			newlines = append(newlines, tokenWithComments{Token: next})
		case token.TComment:
			comments = append(comments, next.Text())
		default:
			if next.Type == token.TRCurl || next.Type == token.TRSquare {
				comments = nil
			}
			p.buffer = append(p.buffer, tokenWithComments{Token: next, comments: comments})
			for i := len(newlines) - 1; i >= 0; i-- {
				p.buffer = append(p.buffer, newlines[i])
			}
			return
		}
		prevNewline = next.Type == token.TNewline
		next = p.tz.Next()
	}
}

func (p *parser) nextToken() (tokenWithComments, error) {
	t := p.popToken()
	switch t.Type {
	case token.TProblem:
		msg := t.Err.Error()
		var te *token.TokenizeErr
		if errors.As(t.Err, &te) {
			msg = te.Err.Error()
		}
		return t, &Error{Origin: t.Origin, Msg: msg, Err: t.Err}
	case token.TUnquoted:
		if p.syntax.IsJSON() {
			return t, p.errorf("%s", p.addKeyName(fmt.Sprintf("token not allowed in valid JSON: '%s'", t.Text())))
		}
	case token.TSubst:
		if p.syntax.IsJSON() {
			return t, p.errorf("substitutions (${} syntax) not allowed in JSON")
		}
	}
	return t, nil
}

func (p *parser) nextTokenIgnoringNewline() (tokenWithComments, error) {
	for {
		t, err := p.nextToken()
		if err != nil {
			return t, err
		}
		if t.Type != token.TNewline {
			return t, nil
		}
		// newlines carry the line they end
		p.lineNumber = t.Line() + 1
	}
}

func (p *parser) fullCurrentPath() *ir.Path {
	var keys []string
	for _, path := range p.pathStack {
		keys = append(keys, path.Keys()...)
	}
	return ir.NewPath(keys...)
}

func (p *parser) addKeyName(msg string) string {
	if len(p.pathStack) == 0 {
		return msg
	}
	return fmt.Sprintf("in value for key '%s': %s", p.fullCurrentPath().Render(), msg)
}

func quoteSuggestion(t tokenWithComments, msg string) string {
	switch t.Type {
	case token.TEnd, token.TNewline, token.TStart:
		return msg
	}
	return fmt.Sprintf("%s (if you intended %s to be part of a value, try enclosing the value in double quotes)", msg, t.String())
}

func (p *parser) parse() (ir.Value, error) {
	t, err := p.nextTokenIgnoringNewline()
	if err != nil {
		return nil, err
	}
	if t.Type != token.TStart {
		return nil, fmt.Errorf("%w: token stream did not begin with start, had %s", ir.ErrBugOrBroken, t.String())
	}
	t, err = p.nextTokenIgnoringNewline()
	if err != nil {
		return nil, err
	}
	var result ir.Value
	switch {
	case t.Type == token.TLCurl || t.Type == token.TLSquare:
		result, err = p.parseValue(t)
	case p.syntax.IsJSON() && t.Type == token.TEnd:
		return nil, p.errorf("empty document")
	case p.syntax.IsJSON():
		return nil, p.errorf("document must have an object or array at root, unexpected token: %s", t.String())
	default:
		// the root braces may be omitted
		p.putBack(t)
		result, err = p.parseObject(false)
	}
	if err != nil {
		return nil, err
	}
	t, err = p.nextTokenIgnoringNewline()
	if err != nil {
		return nil, err
	}
	if t.Type != token.TEnd {
		return nil, p.errorf("document has trailing tokens after first object or array: %s", t.String())
	}
	return result, nil
}

// checkElementSeparator consumes a comma or newlines between elements and
// reports whether there was one.  JSON requires the comma.
func (p *parser) checkElementSeparator() (bool, error) {
	if p.syntax.IsJSON() {
		t, err := p.nextTokenIgnoringNewline()
		if err != nil {
			return false, err
		}
		if t.Type == token.TComma {
			return true, nil
		}
		p.putBack(t)
		return false, nil
	}
	sawSeparator := false
	for {
		t, err := p.nextToken()
		if err != nil {
			return false, err
		}
		switch t.Type {
		case token.TNewline:
			p.lineNumber = t.Line() + 1
			sawSeparator = true
		case token.TComma:
			return true, nil
		default:
			p.putBack(t)
			return sawSeparator, nil
		}
	}
}

// consolidateValueTokens merges adjacent values on one line into a single
// value token, a concatenation when needed.  Unquoted text becomes a
// string.
func (p *parser) consolidateValueTokens() error {
	if p.syntax.IsJSON() {
		return nil
	}
	var (
		values []ir.Value
		first  tokenWithComments
	)
	t, err := p.nextTokenIgnoringNewline()
	if err != nil {
		return err
	}
	for {
		var v ir.Value
		switch t.Type {
		case token.TValue:
			v = t.Value
		case token.TUnquoted:
			v = ir.NewUnquotedString(t.Origin, t.Text())
		case token.TSubst:
			expr, err := substitutionExpression(&t.Token)
			if err != nil {
				return err
			}
			v = ir.NewReference(t.Origin, expr)
		case token.TLCurl, token.TLSquare:
			v, err = p.parseValue(t)
			if err != nil {
				return err
			}
		}
		if v == nil {
			break
		}
		if values == nil {
			first = t
		}
		values = append(values, v)
		// no consolidation across a newline
		t, err = p.nextToken()
		if err != nil {
			return err
		}
	}
	p.putBack(t)
	if values == nil {
		return nil
	}
	consolidated, err := ir.Concatenate(values)
	if err != nil {
		return &Error{Origin: values[0].Origin(), Msg: err.Error(), Err: err}
	}
	p.putBack(tokenWithComments{
		Token: token.Token{
			Type:   token.TValue,
			Origin: consolidated.Origin(),
			Pos:    first.Pos,
			Value:  consolidated,
		},
		comments: first.comments,
	})
	return nil
}

func substitutionExpression(t *token.Token) (ir.SubstitutionExpression, error) {
	path, err := parsePathExpression(t.Expr, t.Origin, "")
	if err != nil {
		return ir.SubstitutionExpression{}, err
	}
	return ir.NewSubstitutionExpression(path, t.Optional), nil
}

func withComments(v ir.Value, comments []string) ir.Value {
	if len(comments) == 0 {
		return v
	}
	return v.WithOrigin(v.Origin().PrependComments(comments))
}

func (p *parser) parseValue(t tokenWithComments) (ir.Value, error) {
	var (
		v   ir.Value
		err error
	)
	switch t.Type {
	case token.TValue:
		v = t.Value
	case token.TLCurl:
		v, err = p.parseObject(true)
	case token.TLSquare:
		v, err = p.parseArray()
	default:
		return nil, p.errorf("%s", quoteSuggestion(t, p.addKeyName("expecting a value but got wrong token: "+t.String())))
	}
	if err != nil {
		return nil, err
	}
	return withComments(v, t.comments), nil
}

// createValueUnderPath nests v in single-key objects for path.
func createValueUnderPath(path *ir.Path, v ir.Value) *ir.Object {
	// comments belong to the leaf only
	o := v.Origin().WithComments(nil)
	return ir.AtPath(v, path, o)
}

func (p *parser) parseKey(t tokenWithComments) (*ir.Path, error) {
	if p.syntax.IsJSON() {
		if s, ok := t.Value.(*ir.String); ok && t.Type == token.TValue {
			return ir.NewPath(s.Value()), nil
		}
		return nil, p.errorf("%s", p.addKeyName("expecting close brace } or a field name here, got "+t.String()))
	}
	var expr []token.Token
	for t.Type == token.TValue || t.Type == token.TUnquoted {
		expr = append(expr, t.Token)
		var err error
		// keys do not cross a newline
		t, err = p.nextToken()
		if err != nil {
			return nil, err
		}
	}
	if len(expr) == 0 {
		return nil, p.errorf("%s", p.addKeyName("expecting a close brace or a field name here, got "+t.String()))
	}
	p.putBack(t)
	return parsePathExpression(expr, p.lineOrigin(), "")
}

func isIncludeKeyword(t tokenWithComments) bool {
	return t.Type == token.TUnquoted && t.Text() == "include"
}

func isKeyValueSeparator(syntax format.Format, t tokenWithComments) bool {
	if syntax.IsJSON() {
		return t.Type == token.TColon
	}
	switch t.Type {
	case token.TColon, token.TEquals, token.TPlusEquals:
		return true
	}
	return false
}

func (p *parser) parseObject(hadOpenCurly bool) (*ir.Object, error) {
	values := map[string]ir.Value{}
	objectOrigin := p.lineOrigin()
	afterComma := false
	for {
		t, err := p.nextTokenIgnoringNewline()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Type == token.TRCurl:
			if p.syntax.IsJSON() && afterComma {
				return nil, p.errorf("%s", quoteSuggestion(t, "expecting a field name after a comma, got a close brace } instead"))
			}
			if !hadOpenCurly {
				return nil, p.errorf("%s", quoteSuggestion(t, "unbalanced close brace '}' with no open brace"))
			}
			return ir.NewObject(objectOrigin, values), nil
		case t.Type == token.TEnd && !hadOpenCurly:
			p.putBack(t)
			return ir.NewObject(objectOrigin, values), nil
		case !p.syntax.IsJSON() && isIncludeKeyword(t):
			if err := p.parseInclude(values); err != nil {
				return nil, err
			}
		default:
			if err := p.parseField(t, values); err != nil {
				return nil, err
			}
		}
		afterComma = false

		sep, err := p.checkElementSeparator()
		if err != nil {
			return nil, err
		}
		if sep {
			afterComma = true
			continue
		}
		t, err = p.nextTokenIgnoringNewline()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Type == token.TRCurl:
			if !hadOpenCurly {
				return nil, p.errorf("%s", quoteSuggestion(t, "unbalanced close brace '}' with no open brace"))
			}
			return ir.NewObject(objectOrigin, values), nil
		case hadOpenCurly:
			return nil, p.errorf("%s", quoteSuggestion(t, "expecting close brace } or a comma, got "+t.String()))
		case t.Type == token.TEnd:
			p.putBack(t)
			return ir.NewObject(objectOrigin, values), nil
		default:
			return nil, p.errorf("%s", quoteSuggestion(t, "expecting end of input or a comma, got "+t.String()))
		}
	}
}

func (p *parser) parseField(keyToken tokenWithComments, values map[string]ir.Value) error {
	path, err := p.parseKey(keyToken)
	if err != nil {
		return err
	}
	afterKey, err := p.nextTokenIgnoringNewline()
	if err != nil {
		return err
	}
	p.pathStack = append(p.pathStack, path)
	defer func() { p.pathStack = p.pathStack[:len(p.pathStack)-1] }()

	var valueToken tokenWithComments
	if !p.syntax.IsJSON() && afterKey.Type == token.TLCurl {
		// the separator may be omitted before an object
		valueToken = afterKey
	} else {
		if !isKeyValueSeparator(p.syntax, afterKey) {
			return p.errorf("%s", quoteSuggestion(afterKey, fmt.Sprintf("key '%s' may not be followed by token: %s", path.Render(), afterKey.String())))
		}
		if err := p.consolidateValueTokens(); err != nil {
			return err
		}
		valueToken, err = p.nextTokenIgnoringNewline()
		if err != nil {
			return err
		}
	}
	valueToken.comments = append(append([]string(nil), keyToken.comments...), valueToken.comments...)
	newValue, err := p.parseValue(valueToken)
	if err != nil {
		return err
	}
	if afterKey.Type == token.TPlusEquals {
		// a += b is a = ${?a} [b]
		prev := ir.NewReference(newValue.Origin(), ir.NewSubstitutionExpression(p.fullCurrentPath(), true))
		list := ir.NewList(newValue.Origin(), []ir.Value{newValue})
		newValue, err = ir.Concatenate([]ir.Value{prev, list})
		if err != nil {
			return &Error{Origin: prev.Origin(), Msg: err.Error(), Err: err}
		}
	}

	key, remaining := path.First(), path.Remainder()
	existing := values[key]
	if remaining == nil {
		if existing != nil {
			if p.syntax.IsJSON() {
				return p.errorf("JSON does not allow duplicate fields: '%s' was already seen at %s", key, existing.Origin().Description())
			}
			newValue = ir.WithFallback(newValue, existing)
		}
		values[key] = newValue
		return nil
	}
	var obj ir.Value = createValueUnderPath(remaining, newValue)
	if existing != nil {
		obj = ir.WithFallback(obj, existing)
	}
	values[key] = obj
	return nil
}

func (p *parser) parseArray() (*ir.List, error) {
	p.arrayCount++
	defer func() { p.arrayCount-- }()
	arrayOrigin := p.lineOrigin()
	var values []ir.Value

	isElementStart := func(t tokenWithComments) bool {
		return t.Type == token.TValue || t.Type == token.TLCurl || t.Type == token.TLSquare
	}

	if err := p.consolidateValueTokens(); err != nil {
		return nil, err
	}
	t, err := p.nextTokenIgnoringNewline()
	if err != nil {
		return nil, err
	}
	switch {
	case t.Type == token.TRSquare:
		return ir.NewList(arrayOrigin, nil), nil
	case isElementStart(t):
		v, err := p.parseValue(t)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	default:
		return nil, p.errorf("%s", p.addKeyName(fmt.Sprintf("list should have ] or a first element after the open [, instead had token: %s (if you want %s to be part of a string value, then double-quote it)", t.String(), t.String())))
	}

	for {
		sep, err := p.checkElementSeparator()
		if err != nil {
			return nil, err
		}
		if !sep {
			t, err = p.nextTokenIgnoringNewline()
			if err != nil {
				return nil, err
			}
			if t.Type == token.TRSquare {
				return ir.NewList(arrayOrigin, values), nil
			}
			return nil, p.errorf("%s", p.addKeyName(fmt.Sprintf("list should have ended with ] or had a comma, instead had token: %s (if you want %s to be part of a string value, then double-quote it)", t.String(), t.String())))
		}

		if err := p.consolidateValueTokens(); err != nil {
			return nil, err
		}
		t, err = p.nextTokenIgnoringNewline()
		if err != nil {
			return nil, err
		}
		switch {
		case isElementStart(t):
			v, err := p.parseValue(t)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		case !p.syntax.IsJSON() && t.Type == token.TRSquare:
			// one trailing comma is allowed
			p.putBack(t)
		default:
			return nil, p.errorf("%s", p.addKeyName(fmt.Sprintf("list should have had new element after a comma, instead had token: %s (if you want the comma or %s to be part of a string value, then double-quote it)", t.String(), t.String())))
		}
	}
}
