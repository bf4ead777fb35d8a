package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/config"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Reference == "" {
		return fmt.Errorf("%w: check requires -r <reference>", cli.ErrUsage)
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	ok, err := checkFiles(cfg, s, cc.Out, cc.In, args)
	if err != nil {
		return err
	}
	if !ok {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFiles writes one line per validation problem and reports whether
// there were none.
func checkFiles(cfg *CheckConfig, s Settings, w io.Writer, in io.Reader, files []string) (bool, error) {
	ref, err := config.Load(config.WithFiles(cfg.Reference))
	if err != nil {
		return false, fmt.Errorf("error loading reference: %w", err)
	}
	c, err := cfg.load(s, in, files, true)
	if err != nil {
		return false, err
	}
	err = c.CheckValid(ref)
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Problems {
			fmt.Fprintln(w, p.String())
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
