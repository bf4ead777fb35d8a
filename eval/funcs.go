package eval

import (
	"errors"
	"os"
	"time"

	"github.com/expr-lang/expr"

	"github.com/signadot/go-hocon/config"
)

func exprOpts(c *config.Config) []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			res, err := c.GetAny(params[0].(string))
			if errors.Is(err, config.ErrMissing) || errors.Is(err, config.ErrNull) {
				return nil, nil
			}
			return res, err
		},
			new(func(string) any)),
		expr.Function("haspath", func(params ...any) (any, error) {
			return c.HasPath(params[0].(string))
		},
			new(func(string) bool)),
		expr.Function("getduration", func(params ...any) (any, error) {
			return c.GetDuration(params[0].(string))
		},
			new(func(string) time.Duration)),
		expr.Function("getbytes", func(params ...any) (any, error) {
			return c.GetBytes(params[0].(string))
		},
			new(func(string) int64)),
		expr.Function("origin", func(params ...any) (any, error) {
			v, err := c.GetValue(params[0].(string))
			if err != nil {
				return nil, err
			}
			return v.Origin().Description(), nil
		},
			new(func(string) string)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}
