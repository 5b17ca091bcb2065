// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package drush runs the drush command-line tool from Go.
//
// A Runner owns the configuration: the resolved path of the drush executable
// and the execution options shared by every call. Initialize locates the
// executable once; Version, Execute and ExecuteStream then invoke it.
//
//	r := drush.New()
//	if err := r.Initialize(ctx, drush.ExecOptions{}); err != nil {
//		return err
//	}
//	out, err := r.Execute(ctx, "status", &drush.Options{Alias: "@prod"})
//
// # Command assembly
//
// Execute places the global options before the command words:
//
//	[alias] [-s] [-l <uri>] <command...> -y
//
// ExecuteStream appends them after its arguments:
//
//	[alias] <args...> [-s] [-l <uri>] -y
//
// Flags that follow the command go before the first "--" so they are never
// passed through to a script. The -y answers every prompt so drush never
// blocks on input.
// Execute renders the vector as a shell command line with every word quoted,
// optionally prefixed by an "echo <text> |" or "cat <file> |" segment, and
// runs it through the shell. ExecuteStream starts drush directly and feeds its
// standard input from an echo or cat helper process.
//
// # Output ordering
//
// ExecuteStream delivers standard output and standard error chunks in the
// order each stream produced them. Chunks of the two streams may interleave
// arbitrarily in the accumulated output.
//
// # Cancellation
//
// Every call takes a context.Context. Cancelling it kills the drush process
// and any helper process. ExecOptions.Timeout adds a per-call deadline.
package drush
