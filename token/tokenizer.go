package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/signadot/go-hocon/format"
	"github.com/signadot/go-hocon/ir"
)

const (
	notInUnquotedText = "$\"{}[]:=,+#`^?!@*&\\"
	firstNumberChars  = "0123456789-"
	numberChars       = "0123456789eE+-."
)

// Tokenizer produces tokens on demand.  The first token is TStart and the
// last TEnd; after a TProblem only TEnd follows.
type Tokenizer struct {
	d      []byte
	i      int
	line   int
	origin *ir.Origin
	syntax format.Format
	posDoc *PosDoc

	queue   []Token
	ws      whitespaceSaver
	started bool
	done    bool
}

func NewTokenizer(d []byte, origin *ir.Origin, syntax format.Format) *Tokenizer {
	if origin == nil {
		origin = ir.NewOrigin("string")
	}
	return &Tokenizer{
		d:      d,
		line:   1,
		origin: origin,
		syntax: syntax,
		posDoc: NewPosDoc(d),
	}
}

// Tokenize collects all tokens from TStart to TEnd.  A problem token is
// returned as an error.
func Tokenize(d []byte, origin *ir.Origin, syntax format.Format) ([]Token, error) {
	t := NewTokenizer(d, origin, syntax)
	var res []Token
	for {
		tok := t.Next()
		if tok.Type == TProblem {
			return res, tok.Err
		}
		res = append(res, tok)
		if tok.Type == TEnd {
			return res, nil
		}
	}
}

func (t *Tokenizer) lineOrigin() *ir.Origin {
	return t.origin.WithLine(t.line)
}

func (t *Tokenizer) Next() Token {
	if !t.started {
		t.started = true
		return Token{Type: TStart, Origin: t.lineOrigin(), Pos: t.posDoc.Pos(0)}
	}
	for len(t.queue) == 0 {
		if t.done {
			return Token{Type: TEnd, Origin: t.lineOrigin(), Pos: t.posDoc.Pos(len(t.d))}
		}
		tok, err := t.pullNextToken(&t.ws)
		if err != nil {
			t.done = true
			t.queue = append(t.queue, t.problem(err))
			break
		}
		if tok.Type == TEnd {
			t.done = true
		}
		if ws := t.ws.check(&tok); ws != nil {
			t.queue = append(t.queue, *ws)
		}
		t.queue = append(t.queue, tok)
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	return tok
}

func (t *Tokenizer) problem(err error) Token {
	var te *TokenizeErr
	if !errors.As(err, &te) {
		te = NewTokenizeErr(err, t.posDoc.Pos(t.i), t.lineOrigin())
	}
	return Token{Type: TProblem, Err: te, Origin: te.Origin, Pos: &te.Pos}
}

func (t *Tokenizer) errorf(base error, format string, args ...any) error {
	return NewTokenizeErr(fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...)), t.posDoc.Pos(t.i), t.lineOrigin())
}

func (t *Tokenizer) peek() (rune, int) {
	if t.i >= len(t.d) {
		return -1, 0
	}
	return utf8.DecodeRune(t.d[t.i:])
}

func (t *Tokenizer) next() rune {
	r, sz := t.peek()
	t.i += sz
	return r
}

func isWhitespace(r rune) bool {
	return r == '\ufeff' || unicode.IsSpace(r)
}

func (t *Tokenizer) startOfComment() bool {
	if !t.syntax.IsConf() {
		return false
	}
	if t.i >= len(t.d) {
		return false
	}
	switch t.d[t.i] {
	case '#':
		return true
	case '/':
		return t.i+1 < len(t.d) && t.d[t.i+1] == '/'
	}
	return false
}

func (t *Tokenizer) pullNextToken(ws *whitespaceSaver) (Token, error) {
	for {
		r, sz := t.peek()
		if r == -1 || r == '\n' || !isWhitespace(r) {
			break
		}
		ws.add(r)
		t.i += sz
	}
	start := t.i
	origin := t.lineOrigin()
	pos := t.posDoc.Pos(start)
	simple := func(tt TokenType) Token {
		return Token{Type: tt, Origin: origin, Pos: pos, Bytes: t.d[start:t.i]}
	}
	if t.startOfComment() {
		return t.pullComment(), nil
	}
	c := t.next()
	switch c {
	case -1:
		return Token{Type: TEnd, Origin: origin, Pos: pos}, nil
	case '\n':
		// newline tokens carry the line they end
		tok := simple(TNewline)
		t.line++
		return tok, nil
	case '"':
		return t.pullQuotedString(start, origin)
	case '$':
		if !t.syntax.HasSubstitutions() {
			return Token{}, t.errorf(ErrNotJSON, "substitutions (${}) are not allowed in JSON")
		}
		return t.pullSubstitution(start, origin)
	case ':':
		return simple(TColon), nil
	case ',':
		return simple(TComma), nil
	case '=':
		return simple(TEquals), nil
	case '{':
		return simple(TLCurl), nil
	case '}':
		return simple(TRCurl), nil
	case '[':
		return simple(TLSquare), nil
	case ']':
		return simple(TRSquare), nil
	case '+':
		if r, _ := t.peek(); r != '=' {
			return Token{}, t.errorf(ErrReserved, "'+' not followed by =, '%s' not allowed after '+' (if you intended '+' to be part of a string value, try enclosing the value in double quotes)", describeRune(r))
		}
		t.next()
		return simple(TPlusEquals), nil
	}
	if strings.ContainsRune(firstNumberChars, c) {
		return t.pullNumber(start, origin)
	}
	if strings.ContainsRune(notInUnquotedText, c) {
		return Token{}, t.errorf(ErrReserved, "reserved character '%s' is not allowed outside quotes (if you intended '%s' to be part of a string value, try enclosing the value in double quotes)", string(c), string(c))
	}
	t.i = start
	return t.pullUnquotedText(start, origin), nil
}

func describeRune(r rune) string {
	if r == -1 {
		return "end of file"
	}
	return string(r)
}

func (t *Tokenizer) pullComment() Token {
	start := t.i
	origin := t.lineOrigin()
	if t.d[t.i] == '#' {
		t.i++
	} else {
		t.i += 2
	}
	bodyStart := t.i
	for t.i < len(t.d) && t.d[t.i] != '\n' {
		t.i++
	}
	return Token{
		Type:   TComment,
		Origin: origin,
		Pos:    t.posDoc.Pos(start),
		Bytes:  t.d[bodyStart:t.i],
	}
}

// pullUnquotedText reads up to a reserved character, whitespace or a
// comment.  true, false and null at the start of the text are keywords
// whatever follows them.
func (t *Tokenizer) pullUnquotedText(start int, origin *ir.Origin) Token {
	var sb strings.Builder
	n := 0
	for {
		r, sz := t.peek()
		if r == -1 || strings.ContainsRune(notInUnquotedText, r) || isWhitespace(r) || t.startOfComment() {
			break
		}
		sb.WriteRune(r)
		t.i += sz
		n++
		var v ir.Value
		switch {
		case n == 4 && sb.String() == "true":
			v = ir.NewBool(origin, true)
		case n == 4 && sb.String() == "null":
			v = ir.NewNull(origin)
		case n == 5 && sb.String() == "false":
			v = ir.NewBool(origin, false)
		}
		if v != nil {
			return Token{Type: TValue, Origin: origin, Pos: t.posDoc.Pos(start), Bytes: t.d[start:t.i], Value: v}
		}
	}
	return Token{Type: TUnquoted, Origin: origin, Pos: t.posDoc.Pos(start), Bytes: t.d[start:t.i]}
}

func (t *Tokenizer) pullNumber(start int, origin *ir.Origin) (Token, error) {
	for t.i < len(t.d) && strings.IndexByte(numberChars, t.d[t.i]) >= 0 {
		t.i++
	}
	text := string(t.d[start:t.i])
	tok := Token{Type: TValue, Origin: origin, Pos: t.posDoc.Pos(start), Bytes: t.d[start:t.i]}
	if n, err := parseNumber(origin, text); err == nil {
		tok.Value = n
		return tok, nil
	}
	// not a number after all
	for _, c := range text {
		if strings.ContainsRune(notInUnquotedText, c) {
			return Token{}, t.errorf(ErrReserved, "reserved character '%s' is not allowed outside quotes", string(c))
		}
	}
	tok.Type = TUnquoted
	return tok, nil
}

func parseNumber(origin *ir.Origin, text string) (*ir.Number, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return ir.NewFloat(origin, f, text), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, err
	}
	return ir.NewInt(origin, i, text), nil
}

func (t *Tokenizer) pullQuotedString(start int, origin *ir.Origin) (Token, error) {
	var sb strings.Builder
	for {
		c := t.next()
		switch {
		case c == -1:
			return Token{}, t.errorf(ErrUnterminated, "end of input but string quote was still open")
		case c == '\\':
			if err := t.pullEscape(&sb); err != nil {
				return Token{}, err
			}
			continue
		case c == '"':
		case unicode.IsControl(c):
			return Token{}, t.errorf(ErrUnicodeControl, "JSON does not allow unescaped %q in quoted strings, use a backslash escape", c)
		default:
			sb.WriteRune(c)
			continue
		}
		break
	}
	if sb.Len() == 0 && t.i < len(t.d) && t.d[t.i] == '"' && t.syntax.IsConf() {
		t.i++
		if err := t.pullTripleQuoted(&sb); err != nil {
			return Token{}, err
		}
	}
	return Token{
		Type:   TValue,
		Origin: origin,
		Pos:    t.posDoc.Pos(start),
		Bytes:  t.d[start:t.i],
		Value:  ir.NewString(origin, sb.String()),
	}, nil
}

// pullTripleQuoted reads raw text up to the last quote of a run of three
// or more; extra leading quotes of the run belong to the string.
func (t *Tokenizer) pullTripleQuoted(sb *strings.Builder) error {
	var buf []byte
	quotes := 0
	for {
		if t.i >= len(t.d) {
			if quotes >= 3 {
				break
			}
			return t.errorf(ErrUnterminated, "end of input but triple-quoted string was still open")
		}
		c := t.d[t.i]
		if c == '"' {
			quotes++
		} else if quotes >= 3 {
			break
		} else {
			quotes = 0
			if c == '\n' {
				t.line++
			}
		}
		buf = append(buf, c)
		t.i++
	}
	sb.Write(buf[:len(buf)-3])
	return nil
}

func (t *Tokenizer) pullEscape(sb *strings.Builder) error {
	c := t.next()
	switch c {
	case -1:
		return t.errorf(ErrUnterminated, "end of input but backslash in string had nothing after it")
	case '"':
		sb.WriteByte('"')
	case '\\':
		sb.WriteByte('\\')
	case '/':
		sb.WriteByte('/')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := t.pullHex4()
		if err != nil {
			return err
		}
		// a high surrogate joins with a following \u low surrogate;
		// unpaired halves decode to U+FFFD
		if utf16.IsSurrogate(r) && t.i+6 <= len(t.d) && t.d[t.i] == '\\' && t.d[t.i+1] == 'u' {
			save := t.i
			t.i += 2
			r2, err := t.pullHex4()
			if err != nil {
				return err
			}
			if pair := utf16.DecodeRune(r, r2); pair != utf8.RuneError {
				r = pair
			} else {
				t.i = save
			}
		}
		sb.WriteRune(r)
	default:
		return t.errorf(ErrBadEscape, "backslash followed by '%s', this is not a valid escape sequence (quoted strings use JSON escaping, so use double-backslash \\\\ for literal backslash)", describeRune(c))
	}
	return nil
}

func (t *Tokenizer) pullHex4() (rune, error) {
	if t.i+4 > len(t.d) {
		return 0, t.errorf(ErrBadUnicode, "end of input but expecting 4 hex digits for \\uXXXX escape")
	}
	hex := string(t.d[t.i : t.i+4])
	n, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, t.errorf(ErrBadUnicode, "malformed hex digits after \\u escape in string: '%s'", hex)
	}
	t.i += 4
	return rune(n), nil
}

func (t *Tokenizer) pullSubstitution(start int, origin *ir.Origin) (Token, error) {
	if c := t.next(); c != '{' {
		return Token{}, t.errorf(ErrReserved, "'$' not followed by {, '%s' not allowed after '$'", describeRune(c))
	}
	optional := false
	if r, _ := t.peek(); r == '?' {
		optional = true
		t.next()
	}
	var (
		ws   whitespaceSaver
		expr []Token
	)
	for {
		tok, err := t.pullNextToken(&ws)
		if err != nil {
			return Token{}, err
		}
		if tok.Type == TRCurl {
			break
		}
		if tok.Type == TEnd {
			return Token{}, NewTokenizeErr(fmt.Errorf("%w: substitution ${ was not closed with a }", ErrUnterminated), t.posDoc.Pos(start), origin)
		}
		if w := ws.check(&tok); w != nil {
			expr = append(expr, *w)
		}
		expr = append(expr, tok)
	}
	return Token{
		Type:     TSubst,
		Origin:   origin,
		Pos:      t.posDoc.Pos(start),
		Bytes:    t.d[start:t.i],
		Expr:     expr,
		Optional: optional,
	}, nil
}

// whitespaceSaver keeps whitespace between two value-like tokens on one
// line so the parser can concatenate them.
type whitespaceSaver struct {
	ws            []rune
	lastWasSimple bool
}

func (w *whitespaceSaver) add(r rune) {
	w.ws = append(w.ws, r)
}

func (w *whitespaceSaver) check(tok *Token) *Token {
	if !tok.IsValueLike() {
		w.lastWasSimple = false
		w.ws = w.ws[:0]
		return nil
	}
	var res *Token
	if w.lastWasSimple {
		if len(w.ws) > 0 {
			s := string(w.ws)
			res = &Token{Type: TUnquoted, Origin: tok.Origin, Pos: tok.Pos, Bytes: []byte(s)}
		}
	} else {
		w.lastWasSimple = true
	}
	w.ws = w.ws[:0]
	return res
}
