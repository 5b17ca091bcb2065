// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	_ Locator = ShellLocator{}
	_ Locator = PathLocator{}
)

// Locator finds the path of an executable.
type Locator interface {
	Locate(ctx context.Context, name string, o ExecOptions) (string, error)
}

// ShellLocator asks the shell where name is, the portable form of "which".
type ShellLocator struct{}

// Locate implements Locator.
func (ShellLocator) Locate(ctx context.Context, name string, o ExecOptions) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty executable name", ErrDiscoveryFailed)
	}

	lookup := "command -v " + shellquote.Join(name)
	if runtime.GOOS == goosWindows {
		lookup = "where " + name
	}

	cmd := shellCommand(ctx, o, lookup)

	out, err := cmd.Output()
	if err != nil {
		return "", errors.Join(ErrDiscoveryFailed, err)
	}

	path := stripWhitespace(firstLine(string(out)))
	if path == "" {
		return "", fmt.Errorf("%w: %s: lookup returned no path", ErrDiscoveryFailed, name)
	}

	return path, nil
}

// PathLocator scans the directories of PATH for an executable regular file.
// A PATH entry in ExecOptions.Env takes precedence over the process environment.
type PathLocator struct{}

// Locate implements Locator.
func (PathLocator) Locate(_ context.Context, name string, o ExecOptions) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty executable name", ErrDiscoveryFailed)
	}

	pathEnv, ok := o.Env["PATH"]
	if !ok {
		pathEnv = os.Getenv("PATH")
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}

		for _, candidate := range candidates(filepath.Join(dir, name)) {
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}

			if runtime.GOOS != goosWindows && info.Mode()&0o111 == 0 {
				continue
			}

			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", errors.Join(ErrDiscoveryFailed, err)
			}

			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %s not in PATH", ErrDiscoveryFailed, name)
}

// candidates adds the Windows executable extensions to path.
func candidates(path string) []string {
	if runtime.GOOS != goosWindows || filepath.Ext(path) != "" {
		return []string{path}
	}

	exts := strings.Split(strings.ToLower(os.Getenv("PATHEXT")), string(os.PathListSeparator))
	if len(exts) == 0 || exts[0] == "" {
		exts = []string{".exe", ".bat", ".cmd"}
	}

	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, path+ext)
	}

	return out
}

// firstLine returns s up to the first newline; "where" prints every match.
func firstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}

	return s
}

// stripWhitespace removes every whitespace character from s.
func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
