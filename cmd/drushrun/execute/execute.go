// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package execute implements the exec subcommand.
package execute

import (
	"context"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/matt-FFFFFF/drush/cmd/cmdstate"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// New returns the exec subcommand, which runs a drush command and prints its standard output once it exits.
func New() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run a drush command and print its output",
		ArgsUsage: "COMMAND...",
		Description: `Run a drush command through the shell and print its standard output when it finishes.
A single argument is split with shell quoting rules, several arguments are passed
to drush as one word each. These two are equivalent:

    drushrun exec "sqlq 'select 1'"
    drushrun exec sqlq "select 1"

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

	line := commandText(cmd.Args().Slice())
	logger.Debug("executing", "command", line)

	out, err := r.Execute(ctx, line, cmdstate.InvocationOptions(ctx, cmd))
	if err != nil {
		logger.Error("drush command failed", "error", err)
		return cli.Exit(err.Error(), cmdstate.ExitCode(err))
	}

	fmt.Fprint(cmd.Root().Writer, out) //nolint:errcheck

	return nil
}

// commandText turns the arguments back into command text that splits into the same words.
func commandText(args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	return shellquote.Join(args...)
}
