package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/go-hocon/ir"
)

var (
	ErrParse   = errors.New("parse error")
	ErrBadPath = errors.New("bad path")
	ErrInclude = errors.New("include failed")
)

// Error is a parse failure at an origin.  It matches ErrParse and, when
// set, the more specific Err.
type Error struct {
	Origin *ir.Origin
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Origin == nil {
		return e.Msg
	}
	return e.Origin.Description() + ": " + e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

func newError(o *ir.Origin, format string, args ...any) *Error {
	return &Error{Origin: o, Msg: fmt.Sprintf(format, args...)}
}

func badPathError(o *ir.Origin, text, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if text != "" {
		msg = fmt.Sprintf("invalid path '%s': %s", text, msg)
	}
	return &Error{Origin: o, Msg: msg, Err: ErrBadPath}
}
