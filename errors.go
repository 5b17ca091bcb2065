// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/drush/internal/capture"
)

var (
	// ErrDiscoveryFailed is returned when the drush executable cannot be located.
	ErrDiscoveryFailed = errors.New("drush executable not found")
	// ErrNotInitialized is returned when a call is made before discovery succeeded.
	ErrNotInitialized = errors.New("drush runner not initialized")
	// ErrProcessSpawnFailed is returned when the operating system could not start a process.
	ErrProcessSpawnFailed = errors.New("could not start process")
	// ErrProcessExitedNonZero is matched by *ExitError.
	ErrProcessExitedNonZero = errors.New("process exited with non-zero code")
	// ErrAuxiliaryProcessFailed is matched by *AuxiliaryError.
	ErrAuxiliaryProcessFailed = errors.New("auxiliary process failed")
	// ErrVersionUnparseable is returned when the version output holds no version number.
	ErrVersionUnparseable = errors.New("could not find a version number in drush output")
	// ErrOutputBufferExceeded is returned when a call produces more output than ExecOptions.MaxBufferBytes.
	ErrOutputBufferExceeded = capture.ErrLimitExceeded
	// ErrInvalidArgs is returned when a command line cannot be split into words.
	ErrInvalidArgs = errors.New("invalid arguments")
)

const maxErrorOutput = 512 // Bytes of stderr quoted in ExitError messages

// ExitError reports a drush process that terminated with a non-zero status.
// Code is -1 when the process was killed by a signal.
type ExitError struct {
	Command string // Base name of the executable
	Code    int    // Exit code
	Stderr  []byte // Captured standard error
	Output  []byte // Captured output: stdout for Execute, combined for ExecuteStream
	Err     error  // Underlying error from the process wait
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s process exited with code %d", e.Command, e.Code)

	detail := strings.TrimSpace(string(e.Stderr))
	if len(detail) > maxErrorOutput {
		detail = detail[:maxErrorOutput] + "..."
	}

	if detail != "" {
		msg += ": " + detail
	}

	return msg
}

// Unwrap allows errors.Is to match ErrProcessExitedNonZero and the wait error.
func (e *ExitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProcessExitedNonZero}
	}

	return []error{ErrProcessExitedNonZero, e.Err}
}

// AuxiliaryError reports an echo or cat helper that failed while feeding drush.
// Code is -1 when the helper never started or was killed by a signal.
type AuxiliaryError struct {
	Helper string // "echo" or "cat"
	Code   int    // Exit code of the helper
	Err    error  // Underlying error
}

func (e *AuxiliaryError) Error() string {
	return fmt.Sprintf("%s process exited with code %d", e.Helper, e.Code)
}

// Unwrap allows errors.Is to match ErrAuxiliaryProcessFailed and the underlying error.
func (e *AuxiliaryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAuxiliaryProcessFailed}
	}

	return []error{ErrAuxiliaryProcessFailed, e.Err}
}
