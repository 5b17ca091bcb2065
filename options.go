// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"maps"
	"time"
)

const (
	// DefaultBinary is the executable name looked up on PATH.
	DefaultBinary = "drush"
	// DefaultMaxBufferBytes bounds the output captured by a single call.
	DefaultMaxBufferBytes int64 = 256 * 1024 * 1024
)

// ExecOptions are the execution options shared by every call a Runner makes.
// Zero values mean "not set" when merging.
type ExecOptions struct {
	Binary         string            // Executable name to locate, defaults to "drush".
	MaxBufferBytes int64             // Maximum captured output per call.
	Log            bool              // Mirror child output to the runner's log writer by default.
	Shell          string            // Shell for discovery and Execute, defaults to /bin/sh.
	Cwd            string            // Working directory of child processes.
	Env            map[string]string // Extra environment variables for child processes.
	Timeout        time.Duration     // Per-call deadline, zero means none.
}

// DefaultExecOptions returns the options a new Runner starts with.
func DefaultExecOptions() ExecOptions {
	return ExecOptions{
		Binary:         DefaultBinary,
		MaxBufferBytes: DefaultMaxBufferBytes,
	}
}

// Merge returns a copy of o with every non-zero field of override applied.
// Env is merged key by key, override wins.
func (o ExecOptions) Merge(override ExecOptions) ExecOptions {
	out := o

	if override.Binary != "" {
		out.Binary = override.Binary
	}

	if override.MaxBufferBytes != 0 {
		out.MaxBufferBytes = override.MaxBufferBytes
	}

	if override.Log {
		out.Log = true
	}

	if override.Shell != "" {
		out.Shell = override.Shell
	}

	if override.Cwd != "" {
		out.Cwd = override.Cwd
	}

	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}

	out.Env = maps.Clone(o.Env)
	if len(override.Env) > 0 && out.Env == nil {
		out.Env = make(map[string]string, len(override.Env))
	}

	maps.Copy(out.Env, override.Env)

	return out
}

// Options shape a single invocation.
type Options struct {
	Alias    string // Site alias placed before the command, e.g. "@self".
	Simulate bool   // Append -s so drush only simulates.
	URI      string // Append -l <uri>.
	Echo     string // Text piped to drush's standard input through echo.
	Cat      string // File piped to drush's standard input through cat.
	Log      bool   // Mirror child output to the runner's log writer.
}

// helper returns the process that feeds standard input, if any.
// Echo takes precedence over Cat.
func (o *Options) helper() (name, arg string, ok bool) {
	switch {
	case o == nil:
		return "", "", false
	case o.Echo != "":
		return helperEcho, o.Echo, true
	case o.Cat != "":
		return helperCat, o.Cat, true
	default:
		return "", "", false
	}
}

// Config is the resolved configuration of a Runner.
type Config struct {
	Command string      // Absolute path of the drush executable, empty until discovery succeeds.
	Exec    ExecOptions // Execution options.
}
