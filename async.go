// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"

	"github.com/matt-FFFFFF/drush/future"
)

// InitializeAsync runs Initialize in the background.
func (r *Runner) InitializeAsync(ctx context.Context, opts ExecOptions) *future.Future[struct{}] {
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.Initialize(ctx, opts)
	})
}

// VersionAsync runs Version in the background.
func (r *Runner) VersionAsync(ctx context.Context) *future.Future[string] {
	return future.Go(ctx, r.Version)
}

// ExecuteAsync runs Execute in the background.
func (r *Runner) ExecuteAsync(ctx context.Context, command string, opts *Options) *future.Future[string] {
	return future.Go(ctx, func(ctx context.Context) (string, error) {
		return r.Execute(ctx, command, opts)
	})
}

// ExecuteStreamAsync runs ExecuteStream in the background.
// onData is called from a goroutine other than the caller's.
func (r *Runner) ExecuteStreamAsync(ctx context.Context, args []string, opts *Options, onData Observer) *future.Future[string] {
	return future.Go(ctx, func(ctx context.Context) (string, error) {
		return r.ExecuteStream(ctx, args, opts, onData)
	})
}
