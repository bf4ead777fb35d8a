package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/encode"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: patch requires a patch file and at least one config file", cli.ErrUsage)
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	p, err := readPatch(cc.In, args[0])
	if err != nil {
		return err
	}
	return patchFiles(cfg, s, cc.Out, p, args[1:])
}

func readPatch(in io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(in)
	}
	d, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("error reading patch: %w", err)
	}
	return d, nil
}

func patchFiles(cfg *PatchConfig, s Settings, w io.Writer, p []byte, files []string) error {
	c, err := cfg.load(s, nil, files, true)
	if err != nil {
		return err
	}
	res, err := c.ApplyJSONPatch(p)
	if err != nil {
		return fmt.Errorf("error patching: %w", err)
	}
	if err := encode.Encode(res.Root(), w, cfg.encOpts(s, w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
