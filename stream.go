// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/matt-FFFFFF/drush/internal/capture"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
)

const (
	lastLineLength = 120
	// maxStderrCapture bounds the copy of standard error kept for ExitError.
	maxStderrCapture = 64 * 1024
)

// Chunk is one write made by drush to its standard output or standard error.
type Chunk = capture.Chunk

// Stream identifies the output stream of a Chunk.
type Stream = capture.Stream

const (
	// StreamStdout marks chunks written to standard output.
	StreamStdout = capture.Stdout
	// StreamStderr marks chunks written to standard error.
	StreamStderr = capture.Stderr
)

// ExecuteStreamLine splits line with shell quoting rules and calls ExecuteStream.
func (r *Runner) ExecuteStreamLine(ctx context.Context, line string, opts *Options, onData Observer) (string, error) {
	args, err := SplitArgs(line)
	if err != nil {
		return "", err
	}

	return r.ExecuteStream(ctx, args, opts, onData)
}

// ExecuteStream starts drush directly with args, without a shell, and returns
// the combined standard output and standard error once it exits with code 0.
//
// Every chunk is passed to onData as it arrives. When opts.Echo or opts.Cat is
// set, an echo or cat helper is started and its output is piped into drush's
// standard input, which is closed once the helper exits cleanly. If the helper
// fails, drush is killed and an *AuxiliaryError is returned. A helper killed
// by SIGPIPE because drush stopped reading is not a failure of its own.
func (r *Runner) ExecuteStream(ctx context.Context, args []string, opts *Options, onData Observer) (string, error) {
	cfg, err := r.snapshot()
	if err != nil {
		return "", err
	}

	ctx = withInvocation(ctx, "stream")
	logger := ctxlog.Logger(ctx)

	argv := BuildArgs(args, opts)
	logger.Debug("assembled arguments", "path", cfg.Command, "args", argv)

	ctx, cancel := withTimeout(ctx, cfg.Exec.Timeout)
	defer cancel()

	mirror := r.mirror(cfg, opts)
	output := capture.New(cfg.Exec.MaxBufferBytes,
		capture.WithObserver(onData),
		capture.WithMirror(mirror),
		capture.WithOnExceeded(cancel),
	)
	stderr := capture.New(min(cfg.Exec.MaxBufferBytes, maxStderrCapture))

	cmd := newCommand(ctx, cfg.Exec, cfg.Command, argv...)
	cmd.Stdout = output.Writer(capture.Stdout)
	cmd.Stderr = io.MultiWriter(output.Writer(capture.Stderr), stderr.Writer(capture.Stderr))

	var (
		helper *exec.Cmd
		stdin  io.WriteCloser
	)

	helperName, helperArg, piped := opts.helper()
	if piped {
		if stdin, err = cmd.StdinPipe(); err != nil {
			return "", errors.Join(ErrProcessSpawnFailed, err)
		}

		helper = newCommand(ctx, cfg.Exec, helperName, helperArg)
		helper.Stdout = stdin

		if mirror != nil {
			helper.Stderr = mirror
		}
	}

	if err := cmd.Start(); err != nil {
		return "", errors.Join(ErrProcessSpawnFailed, err)
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	primaryDone := make(chan error, 1)

	go func() {
		primaryDone <- cmd.Wait()
	}()

	name := filepath.Base(cfg.Command)

	if !piped {
		waitErr := <-primaryDone
		return streamResult(ctx, name, waitErr, cmd, output, stderr)
	}

	if err := helper.Start(); err != nil {
		cancel()
		<-primaryDone

		return "", errors.Join(ErrProcessSpawnFailed, &AuxiliaryError{Helper: helperName, Code: -1, Err: err})
	}

	logger.Debug("helper started", "helper", helperName, "pid", helper.Process.Pid)

	helperDone := make(chan error, 1)

	go func() {
		err := helper.Wait()
		if err == nil {
			_ = stdin.Close()
		}

		helperDone <- err
	}()

	select {
	case err := <-helperDone:
		if brokenPipe(err) {
			logger.Debug("drush stopped reading input", "helper", helperName)
		} else if auxErr := helperError(helperName, err); auxErr != nil {
			logger.Debug("helper failed, stopping drush", "helper", helperName, "error", err)
			cancel()
			<-primaryDone

			return "", auxErr
		}

		waitErr := <-primaryDone

		return streamResult(ctx, name, waitErr, cmd, output, stderr)

	case waitErr := <-primaryDone:
		// A helper cut off by drush exiting is reported through drush's own
		// result. Other helper failures only matter when drush succeeded.
		herr := <-helperDone
		if brokenPipe(herr) {
			logger.Debug("drush stopped reading input", "helper", helperName)
		} else if auxErr := helperError(helperName, herr); auxErr != nil && waitErr == nil {
			return "", auxErr
		}

		return streamResult(ctx, name, waitErr, cmd, output, stderr)
	}
}

func streamResult(ctx context.Context, name string, waitErr error, cmd *exec.Cmd, output, stderr *capture.Buffer) (string, error) {
	ctxlog.Debug(ctx, "process finished",
		"exitCode", cmd.ProcessState.ExitCode(),
		"bytes", output.Len(),
		"lastLine", output.LastLine(lastLineLength),
	)

	if err := processError(ctx, name, waitErr, output.Exceeded(), output, stderr); err != nil {
		return "", err
	}

	return output.String(), nil
}

// helperError converts the wait error of a helper into an *AuxiliaryError.
// Copy errors after a clean exit are not failures of the helper itself.
func helperError(name string, err error) error {
	if err == nil {
		return nil
	}

	code, ok := exitCode(err)
	if !ok {
		return nil
	}

	return &AuxiliaryError{Helper: name, Code: code, Err: err}
}

// brokenPipe reports whether a helper was killed by SIGPIPE, which happens
// when drush exits or closes its standard input before reading everything.
func brokenPipe(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}

	ws, ok := exitErr.Sys().(syscall.WaitStatus)

	return ok && ws.Signaled() && ws.Signal() == syscall.SIGPIPE
}
