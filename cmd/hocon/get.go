package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/encode"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path expression", cli.ErrUsage)
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	return getPath(cfg, s, cc.Out, cc.In, args[0], args[1:])
}

func getPath(cfg *GetConfig, s Settings, w io.Writer, in io.Reader, path string, files []string) error {
	c, err := cfg.load(s, in, files, true)
	if err != nil {
		return err
	}
	v, err := c.GetValue(path)
	if err != nil {
		return err
	}
	if err := encode.Encode(v, w, cfg.encOpts(s, w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
