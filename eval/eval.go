package eval

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/go-hocon/config"
	"github.com/signadot/go-hocon/debug"
	"github.com/signadot/go-hocon/ir"
)

var ErrEval = errors.New("eval error")

// Env is the variable environment of an expression.
type Env map[string]any

// Program is an expression compiled against one configuration.
type Program struct {
	src string
	prg *vm.Program
	env Env
}

// Compile compiles src for evaluation against c, which must be resolved.
func Compile(src string, c *config.Config, opts ...expr.Option) (*Program, error) {
	env, err := envOf(c)
	if err != nil {
		return nil, err
	}
	all := append(exprOpts(c), expr.Env(env), expr.AllowUndefinedVariables())
	all = append(all, opts...)
	prg, err := expr.Compile(src, all...)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %w", ErrEval, src, err)
	}
	return &Program{src: src, prg: prg, env: env}, nil
}

func envOf(c *config.Config) (Env, error) {
	m, err := c.Unwrapped()
	if err != nil {
		return nil, err
	}
	return Env(m), nil
}

func (p *Program) Source() string { return p.src }

// Run evaluates the program.
func (p *Program) Run() (any, error) {
	if debug.Eval() {
		debug.Logf("eval %q", p.src)
	}
	res, err := expr.Run(p.prg, p.env)
	if err != nil {
		return nil, fmt.Errorf("%w: run %q: %w", ErrEval, p.src, err)
	}
	return res, nil
}

// Eval compiles and runs src against c.
func Eval(c *config.Config, src string) (any, error) {
	p, err := Compile(src, c)
	if err != nil {
		return nil, err
	}
	return p.Run()
}

// EvalValue is Eval with the result converted into a configuration value.
func EvalValue(c *config.Config, src string) (ir.Value, error) {
	res, err := Eval(c, src)
	if err != nil {
		return nil, err
	}
	return ToValue(res, src)
}

// ToValue converts an expression result into a value whose origin names
// the expression.
func ToValue(res any, src string) (ir.Value, error) {
	v, err := ir.FromAny(res, ir.NewOrigin("expression "+src))
	if err != nil {
		return nil, fmt.Errorf("%w: result of %q: %w", ErrEval, src, err)
	}
	return v, nil
}

// Match evaluates a boolean predicate against c.
func Match(c *config.Config, predicate string) (bool, error) {
	p, err := Compile(predicate, c, expr.AsBool())
	if err != nil {
		return false, err
	}
	res, err := p.Run()
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// Select returns the objects of the list at path for which predicate
// holds.  The predicate is evaluated with each object as its environment.
func Select(c *config.Config, path, predicate string) ([]*config.Config, error) {
	elems, err := c.GetConfigList(path)
	if err != nil {
		return nil, err
	}
	var res []*config.Config
	for _, elem := range elems {
		ok, err := Match(elem, predicate)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, elem)
		}
	}
	return res, nil
}
