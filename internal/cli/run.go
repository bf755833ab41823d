package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/internal/presentation/tui"
	"golang.org/x/term"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	EngineOptions
	Plain bool
	Watch bool
}

// Execute handles the run command, dispatching to a single session or watch mode.
func Execute(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if !tty {
		opts.Plain = true
	}
	return handleExecutionError(run(sigCtx, opts, os.Stdin, os.Stdout, tty))
}

func run(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, banner bool) error {
	logger := CreateLogger(opts.Debug)
	if banner {
		tui.PrintBanner(out, qiscreen.Version)
	}

	engine, err := NewEngine(ctx, opts.EngineOptions, logger)
	if err != nil {
		return err
	}

	console := NewConsole(ctx, engine, in, out, opts.Plain, logger)
	if opts.Watch {
		return RunWatch(ctx, engine, console)
	}
	if err := console.RunSession(ctx); err != nil {
		return err
	}
	if !opts.Plain {
		fmt.Fprintln(out)
	}
	return nil
}
