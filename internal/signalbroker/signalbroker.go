// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker subscribes to the signals that should stop the CLI
// and cancels a context once the same signal arrives twice.
//
// The first signal is only logged: child processes share the terminal's
// process group and receive it themselves, so drush gets a chance to exit
// cleanly. A second identical signal cancels the context, which kills every
// child started with it.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/drush/internal/ctxlog"
)

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New subscribes to sigs, or to the termination signals when none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	ch := make(chan os.Signal, 1)

	ctxlog.Debug(ctx, "subscribing to signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Watch reads sigCh until it is closed, ctx is done, or a signal is seen for the
// second time. In the last case it stops delivery to sigCh and calls cancel.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Warn(ctx, "second signal received, cancelling", "signal", sig.String())
				signal.Stop(sigCh)
				cancel()

				return
			}

			seen[sig] = struct{}{}

			ctxlog.Info(ctx, "signal received, waiting for drush to exit", "signal", sig.String())
		}
	}
}
