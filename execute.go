// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/matt-FFFFFF/drush/internal/capture"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
)

// Execute runs drush with command through the shell and returns its standard output.
//
// command is split into words with shell quoting rules and every word is
// re-quoted on the command line, so values in command and opts cannot inject
// shell syntax. Output beyond ExecOptions.MaxBufferBytes stops the process and
// fails with ErrOutputBufferExceeded.
func (r *Runner) Execute(ctx context.Context, command string, opts *Options) (string, error) {
	cfg, err := r.snapshot()
	if err != nil {
		return "", err
	}

	words, err := SplitArgs(command)
	if err != nil {
		return "", err
	}

	return r.execute(ctx, cfg, words, opts)
}

func (r *Runner) execute(ctx context.Context, cfg Config, words []string, opts *Options) (string, error) {
	ctx = withInvocation(ctx, "buffered")
	logger := ctxlog.Logger(ctx)

	line := CommandLine(cfg.Command, BuildExecArgs(words, opts), opts)
	logger.Debug("assembled command line", "line", line)

	ctx, cancel := withTimeout(ctx, cfg.Exec.Timeout)
	defer cancel()

	mirror := r.mirror(cfg, opts)
	stdout := capture.New(cfg.Exec.MaxBufferBytes, capture.WithMirror(mirror), capture.WithOnExceeded(cancel))
	stderr := capture.New(cfg.Exec.MaxBufferBytes, capture.WithMirror(mirror), capture.WithOnExceeded(cancel))

	cmd := shellCommand(ctx, cfg.Exec, line)
	cmd.Stdout = stdout.Writer(capture.Stdout)
	cmd.Stderr = stderr.Writer(capture.Stderr)

	if err := cmd.Start(); err != nil {
		return "", errors.Join(ErrProcessSpawnFailed, err)
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	waitErr := cmd.Wait()

	logger.Debug("process finished",
		"exitCode", cmd.ProcessState.ExitCode(),
		"stdoutBytes", stdout.Len(),
		"stderrBytes", stderr.Len(),
		"lastLine", stdout.LastLine(lastLineLength),
	)

	if err := processError(ctx, filepath.Base(cfg.Command), waitErr, stdout.Exceeded() || stderr.Exceeded(), stdout, stderr); err != nil {
		return "", err
	}

	return stdout.String(), nil
}
