// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate carries the runner built by the root command to the subcommands,
// and holds the invocation flags they share.
package cmdstate

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/drush"
	"github.com/matt-FFFFFF/drush/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	aliasFlag    = "alias"
	uriFlag      = "uri"
	simulateFlag = "simulate"
	echoFlag     = "echo"
	catFlag      = "cat"
	logFlag      = "log"
)

// ErrNoRunner is returned when a subcommand runs without the root command's Before hook.
var ErrNoRunner = errors.New("no drush runner in context")

type stateKey struct{}

// State is what the root command resolved before any subcommand runs.
type State struct {
	Runner   *drush.Runner
	Settings config.Settings
	InitErr  error // Discovery failure, reported by the subcommands that need drush
}

// New returns a copy of ctx carrying s.
func New(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// FromContext returns the state stored by New.
func FromContext(ctx context.Context) (*State, error) {
	s, ok := ctx.Value(stateKey{}).(*State)
	if !ok || s == nil || s.Runner == nil {
		return nil, ErrNoRunner
	}

	return s, nil
}

// Runner returns the initialized runner, or the discovery error.
func Runner(ctx context.Context) (*drush.Runner, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}

	if s.InitErr != nil {
		return nil, s.InitErr
	}

	return s.Runner, nil
}

// InvocationFlags returns the flags shared by exec and stream.
func InvocationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  aliasFlag,
			Usage: "Site alias placed before the command, e.g. @self",
		},
		&cli.StringFlag{
			Name:    uriFlag,
			Aliases: []string{"l"},
			Usage:   "Site URI passed to drush with -l",
		},
		&cli.BoolFlag{
			Name:        simulateFlag,
			Aliases:     []string{"s"},
			Usage:       "Ask drush to simulate the command",
			DefaultText: "false",
			Value:       false,
		},
		&cli.StringFlag{
			Name:  echoFlag,
			Usage: "Text piped to drush's standard input",
		},
		&cli.StringFlag{
			Name:      catFlag,
			Usage:     "File piped to drush's standard input",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:        logFlag,
			Usage:       "Mirror drush output to stderr as it arrives",
			DefaultText: "false",
			Value:       false,
		},
	}
}

// InvocationOptions builds the options for one call. Flags that are not set
// fall back to the configured defaults.
func InvocationOptions(ctx context.Context, cmd *cli.Command) *drush.Options {
	var opts drush.Options

	if s, err := FromContext(ctx); err == nil {
		opts = s.Settings.Defaults
	}

	if cmd.IsSet(aliasFlag) {
		opts.Alias = cmd.String(aliasFlag)
	}

	if cmd.IsSet(uriFlag) {
		opts.URI = cmd.String(uriFlag)
	}

	if cmd.IsSet(simulateFlag) {
		opts.Simulate = cmd.Bool(simulateFlag)
	}

	opts.Echo = cmd.String(echoFlag)
	opts.Cat = cmd.String(catFlag)
	opts.Log = cmd.Bool(logFlag)

	return &opts
}

// ExitCode maps a drush failure to the process exit code drushrun should use.
func ExitCode(err error) int {
	var exitErr *drush.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	return 1
}
