// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/matt-FFFFFF/drush/internal/capture"
)

const (
	goosWindows          = "windows"
	commandSwitchWindows = "/C"
	commandSwitchUnix    = "-c"
	binSh                = "/bin/sh"
	winSystemRootEnv     = "SystemRoot"

	// waitDelay bounds how long Wait keeps reading pipes after a process was
	// killed, grandchildren may still hold them open.
	waitDelay = 2 * time.Second
)

// shellPath returns the shell used for discovery and Execute. Command lines
// are quoted for POSIX sh, so the user's login shell is never used implicitly.
func shellPath(configured string) string {
	if configured != "" {
		return configured
	}

	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return systemRoot + `\System32\cmd.exe`
	}

	return binSh
}

// shellCommand builds a command that runs line through the shell.
func shellCommand(ctx context.Context, o ExecOptions, line string) *exec.Cmd {
	sw := commandSwitchUnix
	if runtime.GOOS == goosWindows {
		sw = commandSwitchWindows
	}

	return newCommand(ctx, o, shellPath(o.Shell), sw, line)
}

// newCommand builds a command with the working directory and environment of o.
func newCommand(ctx context.Context, o ExecOptions, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = o.Cwd
	cmd.WaitDelay = waitDelay

	if len(o.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range o.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	return cmd
}

// withTimeout applies the per-call timeout, if any, and always returns a cancel func.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}

	return context.WithCancel(ctx)
}

// exitCode extracts the exit status from a wait error, -1 if there is none.
func exitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}

	return -1, false
}

// processError turns the result of waiting for drush into the error a call returns.
// ctx is the context the process ran under, used to tell cancellation from failure.
// overflow reports whether a buffer enforcing MaxBufferBytes ran out of room.
func processError(ctx context.Context, name string, waitErr error, overflow bool, output, stderr *capture.Buffer) error {
	if overflow {
		return errors.Join(ErrOutputBufferExceeded, waitErr)
	}

	if waitErr == nil {
		return nil
	}

	code, ok := exitCode(waitErr)
	if !ok {
		if errors.Is(waitErr, exec.ErrWaitDelay) {
			return nil
		}

		return fmt.Errorf("waiting for %s: %w", name, waitErr)
	}

	exitErr := &ExitError{
		Command: name,
		Code:    code,
		Output:  output.Bytes(),
		Err:     waitErr,
	}

	if stderr != nil {
		exitErr.Stderr = stderr.Bytes()
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(exitErr, err)
	}

	return exitErr
}
