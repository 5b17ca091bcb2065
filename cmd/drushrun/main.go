// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the drushrun command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matt-FFFFFF/drush"
	"github.com/matt-FFFFFF/drush/cmd/cmdstate"
	"github.com/matt-FFFFFF/drush/cmd/drushrun/execute"
	"github.com/matt-FFFFFF/drush/cmd/drushrun/stream"
	"github.com/matt-FFFFFF/drush/cmd/drushrun/version"
	"github.com/matt-FFFFFF/drush/cmd/drushrun/which"
	"github.com/matt-FFFFFF/drush/internal/config"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/matt-FFFFFF/drush/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

const (
	configFlag    = "config"
	binaryFlag    = "binary"
	maxBufferFlag = "max-buffer"
	timeoutFlag   = "timeout"
	logFormatFlag = "log-format"
	logLevelFlag  = "log-level"

	logFormatConsole = "console"
	logFormatJSON    = "json"
)

// newRootCmd returns the root command for the CLI.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			which.New(),
			version.New(),
			execute.New(),
			stream.New(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage: "URL of a YAML configuration file. " +
					"Supports Hashicorp's go-getter syntax for fetching files from various sources.",
				Sources: cli.EnvVars("DRUSHRUN_CONFIG"),
			},
			&cli.StringFlag{
				Name:  binaryFlag,
				Usage: "Name of the drush executable to look up",
			},
			&cli.Int64Flag{
				Name:  maxBufferFlag,
				Usage: "Maximum bytes of output captured per command",
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "Kill drush after this long, e.g. 30s",
			},
			&cli.StringFlag{
				Name:  logFormatFlag,
				Usage: "Log format, console or json",
				Value: logFormatConsole,
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level: debug, info, warn or error",
			},
		},
		Before:    before,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "drushrun",
		Description: `drushrun locates the drush command-line tool and runs it for you.
Output is either collected and printed when drush exits (exec) or copied as it
arrives (stream). Text or files can be piped into drush's standard input.`,
		Usage:     "drushrun exec status",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

// before loads the configuration and locates drush. A discovery failure is kept
// in the state so that only the subcommands needing drush report it.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch cmd.String(logFormatFlag) {
	case logFormatJSON:
		ctx = ctxlog.New(ctx, ctxlog.JSONLogger)
	case logFormatConsole:
		ctx = ctxlog.NewForWriter(ctx, cmd.ErrWriter)
	default:
		return ctx, fmt.Errorf("unknown log format %q", cmd.String(logFormatFlag))
	}

	if cmd.IsSet(logLevelFlag) {
		level, ok := ctxlog.ParseLevel(cmd.String(logLevelFlag))
		if !ok {
			return ctx, fmt.Errorf("unknown log level %q", cmd.String(logLevelFlag))
		}

		ctxlog.LevelVar.Set(level)
	}

	settings, err := config.Load(ctx, cmd.String(configFlag), os.Getenv)
	if err != nil {
		return ctx, err
	}

	settings.Exec = settings.Exec.Merge(drush.ExecOptions{
		Binary:         cmd.String(binaryFlag),
		MaxBufferBytes: cmd.Int64(maxBufferFlag),
		Timeout:        cmd.Duration(timeoutFlag),
	})

	if err := settings.Validate(); err != nil {
		return ctx, err
	}

	r := drush.New(
		drush.WithLocator(settings.Locator()),
		drush.WithLogWriter(cmd.ErrWriter),
	)

	initCtx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	state := &cmdstate.State{
		Runner:   r,
		Settings: settings,
		InitErr:  r.Initialize(initCtx, settings.Exec),
	}

	return cmdstate.New(ctx, state), nil
}

const discoveryTimeout = 30 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := newRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", drush.BuildVersion, drush.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}
}
