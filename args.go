// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"errors"
	"slices"

	"github.com/kballard/go-shellquote"
)

const (
	flagVersion  = "--version"
	flagSimulate = "-s"
	flagURI      = "-l"
	flagYes      = "-y"
	helperEcho   = "echo"
	helperCat    = "cat"
	pipeSep      = " | "
	endOfOptions = "--"
)

// SplitArgs splits s into words using shell quoting rules.
// Quoted substrings are kept as single words; no expansion is performed.
func SplitArgs(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidArgs, err)
	}

	return words, nil
}

// BuildArgs assembles the argument vector ExecuteStream passes to drush:
// the alias first, then args, then -s, -l <uri> and -y. When args hold a
// "--" separator the flags are placed before it so they still reach drush.
func BuildArgs(args []string, opts *Options) []string {
	if opts == nil {
		opts = &Options{}
	}

	out := make([]string, 0, len(args)+5)

	if opts.Alias != "" {
		out = append(out, opts.Alias)
	}

	return append(out, beforeSeparator(args, append(globalFlags(opts), flagYes))...)
}

// BuildExecArgs assembles the argument vector Execute renders on the command
// line: the alias, -s and -l <uri> first, then words and -y.
func BuildExecArgs(words []string, opts *Options) []string {
	if opts == nil {
		opts = &Options{}
	}

	out := make([]string, 0, len(words)+5)

	if opts.Alias != "" {
		out = append(out, opts.Alias)
	}

	out = append(out, globalFlags(opts)...)

	return append(out, beforeSeparator(words, []string{flagYes})...)
}

func globalFlags(opts *Options) []string {
	var flags []string

	if opts.Simulate {
		flags = append(flags, flagSimulate)
	}

	if opts.URI != "" {
		flags = append(flags, flagURI, opts.URI)
	}

	return flags
}

// beforeSeparator returns a copy of args with flags inserted before the first
// "--", or appended when there is none.
func beforeSeparator(args, flags []string) []string {
	idx := slices.Index(args, endOfOptions)
	if idx < 0 {
		return append(slices.Clone(args), flags...)
	}

	out := make([]string, 0, len(args)+len(flags))
	out = append(out, args[:idx]...)
	out = append(out, flags...)

	return append(out, args[idx:]...)
}

// CommandLine renders the shell command line Execute runs for command and args.
// Every word is quoted, and the echo or cat helper from opts becomes a pipeline
// segment in front of it.
func CommandLine(command string, args []string, opts *Options) string {
	line := shellquote.Join(append([]string{command}, args...)...)

	if name, arg, ok := opts.helper(); ok {
		line = shellquote.Join(name, arg) + pipeSep + line
	}

	return line
}
