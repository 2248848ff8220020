// Package main implements the sqlstmt CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/electwix/sqlstmt/internal/cli"
	"github.com/electwix/sqlstmt/internal/logging"
	"github.com/electwix/sqlstmt/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Writer:  stderr,
	})

	pipe := pipeline.Pipeline{Env: pipeline.Environment{
		Logger: logger,
		Writer: pipeline.NewOSWriter(),
	}}
	summary, err := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:   opts.ConfigPath,
		Tables:       opts.Tables,
		Out:          opts.Out,
		Format:       opts.Format,
		Dialect:      opts.Dialect,
		Package:      opts.Package,
		DryRun:       opts.DryRun,
		StrictConfig: opts.StrictConfig,
	})
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		var writeErr *pipeline.WriteError
		if errors.As(err, &writeErr) {
			return 2
		}
		return 1
	}

	if summary.Output.Path == "" {
		_, _ = stdout.Write(summary.Output.Content)
		return 0
	}
	if opts.DryRun {
		_, _ = fmt.Fprintln(stdout, summary.Output.Path)
	}
	return 0
}
