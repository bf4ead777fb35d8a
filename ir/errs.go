package ir

import (
	"errors"
	"fmt"
)

var (
	// ErrBugOrBroken marks a violated library invariant or a misuse of the
	// API.  It is not meant to be handled, only fixed.
	ErrBugOrBroken = errors.New("bug or broken invariant")
	// ErrNotResolved is returned when a value is read that needs
	// substitutions resolved first.
	ErrNotResolved = errors.New("not resolved")
	// ErrWrongType is returned when values of incompatible types are
	// combined.
	ErrWrongType = errors.New("wrong type")
)

func bugf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBugOrBroken, fmt.Sprintf(format, args...))
}

// WrongTypeError reports incompatible values, with the origin of the
// offending value.
type WrongTypeError struct {
	Origin *Origin
	Msg    string
}

func (e *WrongTypeError) Error() string {
	if e.Origin == nil {
		return fmt.Sprintf("%s: %s", ErrWrongType, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Origin.Description(), ErrWrongType, e.Msg)
}

func (e *WrongTypeError) Unwrap() error {
	return ErrWrongType
}
