// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package version implements the version subcommand.
package version

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/drush/cmd/cmdstate"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// New returns the version subcommand, which prints the version reported by drush --version.
func New() *cli.Command {
	return &cli.Command{
		Name:        "version",
		Usage:       "Print the drush version",
		Description: "Run drush --version and print the version number it reports, e.g. 8.1.15.",
		Action:      actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	r, err := cmdstate.Runner(ctx)
	if err != nil {
		logger.Error("drush is not available", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	v, err := r.Version(ctx)
	if err != nil {
		logger.Error("could not read drush version", "error", err)
		return cli.Exit(err.Error(), cmdstate.ExitCode(err))
	}

	fmt.Fprintln(cmd.Root().Writer, v) //nolint:errcheck

	return nil
}
