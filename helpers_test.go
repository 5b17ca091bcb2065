// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// fakeDrush mimics the handful of drush behaviours the tests rely on.
// A leading @alias and the -s and -l flags before the command are consumed
// and reported by the "args" command.
const fakeDrush = `#!/bin/sh
alias=""
globals=""
case "$1" in
@*) alias="$1"; shift ;;
esac
while [ $# -gt 0 ]; do
	case "$1" in
	-s) globals="$globals -s"; shift ;;
	-l) globals="$globals -l $2"; shift 2 ;;
	*) break ;;
	esac
done
cmd="$1"
[ $# -gt 0 ] && shift
case "$cmd" in
--version)
	echo " Drush Version   :  8.1.15 "
	;;
st|status)
	echo " PHP executable         :  /usr/bin/php"
	echo " Drupal bootstrap       :  Successful"
	;;
args)
	if [ -n "$alias" ]; then echo "alias:$alias"; fi
	if [ -n "$globals" ]; then echo "globals:$globals"; fi
	for a in "$@"; do echo "arg:$a"; done
	;;
stdin)
	cat
	;;
first)
	read -r line
	echo "$line"
	;;
mixed)
	echo "out-line"
	echo "err-line" >&2
	;;
fail)
	echo "fatal: something broke" >&2
	exit 2
	;;
noisyfail)
	i=0
	while [ $i -lt 3000 ]; do
		echo "0123456789abcdef0123456789abcdef" >&2
		i=$((i+1))
	done
	exit 2
	;;
flood)
	i=0
	while [ $i -lt 2000 ]; do
		echo "0123456789abcdef0123456789abcdef"
		i=$((i+1))
	done
	;;
sleep)
	exec sleep 10
	;;
*)
	echo "unknown command: $cmd" >&2
	exit 1
	;;
esac
exit 0
`

// noVersionDrush prints a banner without a version number.
const noVersionDrush = `#!/bin/sh
echo "Drush Commandline Tool"
exit 0
`

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == goosWindows {
		t.Skip("fake drush is a POSIX shell script")
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctxlog.LevelVar.Set(slog.LevelDebug)

	return ctxlog.New(ctx, ctxlog.DefaultLogger)
}

// writeScript writes an executable script called name into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))

	return path
}

// installFakeDrush puts a fake drush on PATH and returns its directory and path.
func installFakeDrush(t *testing.T, body string) (string, string) {
	t.Helper()
	skipOnWindows(t)

	dir := t.TempDir()
	path := writeScript(t, dir, DefaultBinary, body)

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	return dir, path
}

// newFakeRunner returns a Runner already pointing at a fake drush, without discovery.
func newFakeRunner(t *testing.T, exec ExecOptions, opts ...Option) *Runner {
	t.Helper()
	skipOnWindows(t)

	path := writeScript(t, t.TempDir(), DefaultBinary, fakeDrush)
	exec.Shell = binSh

	opts = append([]Option{WithLogWriter(io.Discard)}, opts...)

	return NewWithConfig(Config{Command: path, Exec: exec}, opts...)
}

type stubLocator struct {
	path  string
	err   error
	calls int
}

func (s *stubLocator) Locate(_ context.Context, _ string, _ ExecOptions) (string, error) {
	s.calls++
	return s.path, s.err
}
