// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package which implements the which subcommand.
package which

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/drush/cmd/cmdstate"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// New returns the which subcommand, which prints the path of the drush executable.
func New() *cli.Command {
	return &cli.Command{
		Name:        "which",
		Usage:       "Print the path of the drush executable",
		Description: "Print the absolute path of the drush executable found by discovery.",
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

	path, err := r.Command()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Root().Writer, path) //nolint:errcheck

	return nil
}
