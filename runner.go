// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/oklog/ulid/v2"
)

// Observer receives output chunks from ExecuteStream as they arrive.
// Calls for one invocation are serialized.
type Observer func(Chunk)

// Runner invokes drush. It is safe for concurrent use; each call works on a
// snapshot of the configuration taken when the call starts.
type Runner struct {
	mu      sync.RWMutex
	cfg     Config
	locator Locator
	logOut  io.Writer
}

// Option configures a Runner.
type Option func(r *Runner)

// WithLocator replaces the default ShellLocator.
func WithLocator(l Locator) Option {
	return func(r *Runner) {
		if l != nil {
			r.locator = l
		}
	}
}

// WithLogWriter sets where child output is mirrored when logging is enabled.
// The default is os.Stdout. Writes are serialized by the Runner.
func WithLogWriter(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.logOut = &lockedWriter{w: w}
		}
	}
}

// WithExecOptions merges o into the default execution options.
func WithExecOptions(o ExecOptions) Option {
	return func(r *Runner) {
		r.cfg.Exec = r.cfg.Exec.Merge(o)
	}
}

// New creates a Runner that still needs Initialize.
func New(opts ...Option) *Runner {
	r := &Runner{
		cfg:     Config{Exec: DefaultExecOptions()},
		locator: ShellLocator{},
		logOut:  &lockedWriter{w: os.Stdout},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewWithConfig creates a Runner from an already resolved configuration.
// cfg.Exec is merged over the defaults. If cfg.Command is empty the Runner still needs Initialize.
func NewWithConfig(cfg Config, opts ...Option) *Runner {
	r := New(opts...)
	r.cfg.Command = cfg.Command
	r.cfg.Exec = r.cfg.Exec.Merge(cfg.Exec)

	return r
}

// Initialize merges opts into the execution options and locates the drush executable.
// On failure the previously resolved path is discarded, and calls fail with
// ErrNotInitialized until Initialize succeeds.
func (r *Runner) Initialize(ctx context.Context, opts ExecOptions) error {
	r.mu.Lock()
	r.cfg.Exec = r.cfg.Exec.Merge(opts)
	execOpts := r.cfg.Exec
	locator := r.locator
	r.mu.Unlock()

	logger := ctxlog.Logger(ctx).With("binary", execOpts.Binary)
	logger.Debug("locating executable", "locator", locatorName(locator))

	path, err := locator.Locate(ctx, execOpts.Binary, execOpts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.cfg.Command = ""
		logger.Debug("discovery failed", "error", err)

		return err
	}

	r.cfg.Command = path
	logger.Info("drush located", "path", path)

	return nil
}

// Config returns a copy of the current configuration.
func (r *Runner) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := r.cfg
	cfg.Exec = cfg.Exec.Merge(ExecOptions{})

	return cfg
}

// Command returns the resolved executable path.
func (r *Runner) Command() (string, error) {
	cfg, err := r.snapshot()
	if err != nil {
		return "", err
	}

	return cfg.Command, nil
}

func (r *Runner) snapshot() (Config, error) {
	cfg := r.Config()
	if cfg.Command == "" {
		return Config{}, ErrNotInitialized
	}

	return cfg, nil
}

// mirror returns the log writer when logging is enabled for this call.
func (r *Runner) mirror(cfg Config, opts *Options) io.Writer {
	if cfg.Exec.Log || (opts != nil && opts.Log) {
		return r.logOut
	}

	return nil
}

// withInvocation tags every record of one call with a unique ID.
func withInvocation(ctx context.Context, mode string) context.Context {
	logger := ctxlog.Logger(ctx).With("invocation", ulid.Make().String(), "mode", mode)

	return ctxlog.New(ctx, logger)
}

func locatorName(l Locator) string {
	switch l.(type) {
	case ShellLocator, *ShellLocator:
		return "shell"
	case PathLocator, *PathLocator:
		return "path"
	default:
		return "custom"
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p) //nolint:wrapcheck
}
