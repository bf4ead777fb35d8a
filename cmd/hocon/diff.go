package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	differs, err := diffFiles(cfg, s, cc.Out, args[0], args[1])
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffFiles(cfg *DiffConfig, s Settings, w io.Writer, a, b string) (bool, error) {
	ca, err := cfg.load(s, nil, []string{a}, true)
	if err != nil {
		return false, err
	}
	cb, err := cfg.load(s, nil, []string{b}, true)
	if err != nil {
		return false, err
	}
	opts := []encode.EncodeOption{
		encode.EncodeJSON(s.JSON),
		encode.EncodeComments(s.Comments),
		encode.Indent(s.Indent),
	}
	d, err := libdiff.DiffValues(ca.Root(), cb.Root(), a, b, cfg.Context, opts...)
	if err != nil {
		return false, err
	}
	if d == "" {
		return false, nil
	}
	if _, err := io.WriteString(w, d); err != nil {
		return false, err
	}
	return true, nil
}
