package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/go-hocon/ir"
	"github.com/signadot/go-hocon/parse"
)

var (
	ErrMissing     = errors.New("missing")
	ErrNull        = errors.New("null")
	ErrBadValue    = errors.New("bad value")
	ErrValidation  = errors.New("validation failed")
	ErrWrongType   = ir.ErrWrongType
	ErrBadPath     = parse.ErrBadPath
	ErrNotResolved = ir.ErrNotResolved
)

// Error is a getter failure at a path.  It matches its sentinel with
// errors.Is.
type Error struct {
	Origin *ir.Origin
	Path   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Origin != nil {
		sb.WriteString(e.Origin.Description())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

func missingError(o *ir.Origin, path string) *Error {
	return &Error{
		Origin: o,
		Path:   path,
		Msg:    fmt.Sprintf("no configuration setting found for key '%s'", path),
		Err:    ErrMissing,
	}
}

func nullError(o *ir.Origin, path string, expected string) *Error {
	msg := fmt.Sprintf("configuration key '%s' is set to null", path)
	if expected != "" {
		msg += " but expected " + expected
	}
	return &Error{Origin: o, Path: path, Msg: msg, Err: ErrNull}
}

func wrongTypeError(o *ir.Origin, path, expected, actual string) *Error {
	return &Error{
		Origin: o,
		Path:   path,
		Msg:    fmt.Sprintf("%s has type %s rather than %s", path, actual, expected),
		Err:    ErrWrongType,
	}
}

func badValueError(o *ir.Origin, path string, err error) *Error {
	return &Error{
		Origin: o,
		Path:   path,
		Msg:    fmt.Sprintf("invalid value at '%s': %s", path, err),
		Err:    ErrBadValue,
	}
}

// ValidationProblem is one difference between a config and its
// reference.
type ValidationProblem struct {
	Path    string
	Origin  *ir.Origin
	Problem string
}

func (p ValidationProblem) String() string {
	if p.Origin == nil {
		return p.Problem
	}
	return p.Origin.Description() + ": " + p.Problem
}

// ValidationError collects every problem CheckValid found.
type ValidationError struct {
	Problems []ValidationProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
