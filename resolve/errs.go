package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/go-hocon/ir"
)

var ErrUnresolvedSubstitution = errors.New("could not resolve substitution to a value")

// UnresolvedSubstitutionError names a substitution that has no value or
// that is part of a cycle.
type UnresolvedSubstitutionError struct {
	Origin *ir.Origin
	Expr   string
	// Cycle lists the substitutions being looked up when the cycle was
	// found, outermost first.  It is empty for missing values.
	Cycle []string
}

func (e *UnresolvedSubstitutionError) Error() string {
	desc := ""
	if e.Origin != nil {
		desc = e.Origin.Description() + ": "
	}
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("%s%s was part of a cycle of substitutions involving %s", desc, e.Expr, strings.Join(e.Cycle, ", "))
	}
	return fmt.Sprintf("%s%s: %s", desc, ErrUnresolvedSubstitution, e.Expr)
}

func (e *UnresolvedSubstitutionError) Unwrap() error {
	return ErrUnresolvedSubstitution
}

// notPossibleToResolve unwinds a resolve that reached a value already
// being resolved.  It is caught by the reference that started the cycle
// and never leaves the package.
type notPossibleToResolve struct {
	trace []string
}

func (n *notPossibleToResolve) Error() string {
	return "not possible to resolve: " + strings.Join(n.trace, ", ")
}
