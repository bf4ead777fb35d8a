package token

import (
	"fmt"
	"strings"

	"github.com/signadot/go-hocon/ir"
)

type TokenType int

const (
	TStart TokenType = iota
	TEnd
	TComma
	TColon
	TEquals
	TPlusEquals
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TNewline
	TValue
	TUnquoted
	TSubst
	TComment
	TProblem
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TStart:      "TStart",
		TEnd:        "TEnd",
		TComma:      "TComma",
		TColon:      "TColon",
		TEquals:     "TEquals",
		TPlusEquals: "TPlusEquals",
		TLCurl:      "TLCurl",
		TRCurl:      "TRCurl",
		TLSquare:    "TLSquare",
		TRSquare:    "TRSquare",
		TNewline:    "TNewline",
		TValue:      "TValue",
		TUnquoted:   "TUnquoted",
		TSubst:      "TSubst",
		TComment:    "TComment",
		TProblem:    "TProblem",
	}[t]
}

type Token struct {
	Type TokenType
	Pos  *Pos
	// Origin is the document origin at the token's line.
	Origin *ir.Origin
	// Bytes is the source text, or the comment body for comments.
	Bytes []byte
	// Value is set for TValue tokens.
	Value ir.Value
	// Expr and Optional describe a TSubst token.
	Expr     []Token
	Optional bool
	// Err is set for TProblem tokens.
	Err error
}

// Text is the token's source text.
func (t *Token) Text() string {
	return string(t.Bytes)
}

// Line is the 1-based line of the token, or -1.
func (t *Token) Line() int {
	if t.Origin == nil {
		return -1
	}
	return t.Origin.Line()
}

// IsValueLike reports whether t may take part in a concatenation.
func (t *Token) IsValueLike() bool {
	switch t.Type {
	case TValue, TUnquoted, TSubst:
		return true
	}
	return false
}

// IsWhitespace reports whether t is saved whitespace between values.
func (t *Token) IsWhitespace() bool {
	return t.Type == TUnquoted && strings.TrimSpace(string(t.Bytes)) == "" && len(t.Bytes) > 0
}

func (t *Token) Info() string {
	if t.Pos == nil {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	switch t.Type {
	case TStart:
		return "start of file"
	case TEnd:
		return "end of file"
	case TNewline:
		return "newline"
	case TValue:
		return t.Value.String()
	case TUnquoted:
		return "'" + string(t.Bytes) + "'"
	case TSubst:
		parts := make([]string, len(t.Expr))
		for i := range t.Expr {
			parts[i] = t.Expr[i].Text()
		}
		if t.Optional {
			return "${?" + strings.Join(parts, "") + "}"
		}
		return "${" + strings.Join(parts, "") + "}"
	case TComment:
		return "comment '" + string(t.Bytes) + "'"
	case TProblem:
		return "problem: " + t.Err.Error()
	default:
		return "'" + string(t.Bytes) + "'"
	}
}
