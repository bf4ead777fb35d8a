package token

import (
	"errors"
	"fmt"

	"github.com/signadot/go-hocon/ir"
)

var (
	ErrUnterminated   = errors.New("unterminated")
	ErrBadEscape      = errors.New("bad escape")
	ErrBadUnicode     = errors.New("bad unicode")
	ErrUnicodeControl = errors.New("unicode control")
	ErrReserved       = errors.New("reserved character")
	ErrNotJSON        = errors.New("not allowed in JSON")
)

// TokenizeErr is the error carried by a problem token.
type TokenizeErr struct {
	Err    error
	Pos    Pos
	Origin *ir.Origin
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos, o *ir.Origin) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p, Origin: o}
}

func (e *TokenizeErr) Error() string {
	if e.Origin == nil {
		return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
	}
	return fmt.Sprintf("%s: %s", e.Origin.Description(), e.Err.Error())
}
