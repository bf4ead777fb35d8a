package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-hocon/config"
	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/watch"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	if cfg.Watch {
		return viewWatch(cfg, s, cc.Out, args)
	}
	return viewFiles(cfg, s, cc.Out, cc.In, args)
}

func viewFiles(cfg *ViewConfig, s Settings, w io.Writer, in io.Reader, files []string) error {
	c, err := cfg.load(s, in, files, !cfg.Raw)
	if err != nil {
		return err
	}
	if err := encode.Encode(c.Root(), w, cfg.encOpts(s, w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func viewWatch(cfg *ViewConfig, s Settings, w io.Writer, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: view -w requires files", cli.ErrUsage)
	}
	opts, err := cfg.loadOpts(s)
	if err != nil {
		return err
	}
	encOpts := cfg.encOpts(s, w)
	n := 0
	handler := func(c *config.Config, err error) {
		if n > 0 {
			fmt.Fprintf(w, "# reloaded at %s\n", time.Now().Format(time.RFC3339))
		}
		n++
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading: %v\n", err)
			return
		}
		if err := encode.Encode(c.Root(), w, encOpts...); err != nil {
			fmt.Fprintf(os.Stderr, "error encoding result: %v\n", err)
		}
	}
	wt, err := watch.New(files, handler, watch.WithLoadOptions(opts...))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return wt.Run(ctx)
}
