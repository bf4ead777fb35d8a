package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/eval"
	"github.com/signadot/go-hocon/ir"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires one argument, an expression", cli.ErrUsage)
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	return queryFiles(cfg, s, cc.Out, cc.In, args[0], args[1:])
}

func queryFiles(cfg *QueryConfig, s Settings, w io.Writer, in io.Reader, src string, files []string) error {
	c, err := cfg.load(s, in, files, true)
	if err != nil {
		return err
	}
	var res ir.Value
	if cfg.Select != "" {
		sel, err := eval.Select(c, cfg.Select, src)
		if err != nil {
			return err
		}
		elems := make([]ir.Value, len(sel))
		for i, e := range sel {
			elems[i] = e.Root()
		}
		res = ir.NewList(ir.NewOrigin("select "+src), elems)
	} else {
		res, err = eval.EvalValue(c, src)
		if err != nil {
			return err
		}
	}
	if err := encode.Encode(res, w, cfg.encOpts(s, w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
