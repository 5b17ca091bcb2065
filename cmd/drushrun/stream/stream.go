// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package stream implements the stream subcommand.
package stream

import (
	"context"
	"io"

	"github.com/matt-FFFFFF/drush"
	"github.com/matt-FFFFFF/drush/cmd/cmdstate"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// New returns the stream subcommand, which runs drush directly and copies its output as it arrives.
func New() *cli.Command {
	return &cli.Command{
		Name:      "stream",
		Usage:     "Run drush and print its output as it arrives",
		ArgsUsage: "ARGS...",
		Description: `Start drush without a shell and copy its standard output and standard error
to drushrun's own as they arrive. Each argument is passed to drush as one word;
a single argument is split with shell quoting rules.

Use --echo or --cat to pipe text or a file into drush's standard input.`,
		Flags:  cmdstate.InvocationFlags(),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	r, err := cmdstate.Runner(ctx)
	if err != nil {
		logger.Error("drush is not available", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	root := cmd.Root()
	opts := cmdstate.InvocationOptions(ctx, cmd)
	onData := printer(root.Writer, root.ErrWriter)

	args := cmd.Args().Slice()
	if len(args) == 1 {
		_, err = r.ExecuteStreamLine(ctx, args[0], opts, onData)
	} else {
		_, err = r.ExecuteStream(ctx, args, opts, onData)
	}

	if err != nil {
		logger.Error("drush command failed", "error", err)
		return cli.Exit(err.Error(), cmdstate.ExitCode(err))
	}

	return nil
}

// printer copies each chunk to the writer matching its stream.
func printer(stdout, stderr io.Writer) drush.Observer {
	return func(c drush.Chunk) {
		w := stdout
		if c.Stream == drush.StreamStderr {
			w = stderr
		}

		w.Write(c.Data) //nolint:errcheck
	}
}
