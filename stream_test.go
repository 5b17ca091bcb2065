// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// chunkRecorder collects observer chunks per stream.
type chunkRecorder struct {
	mu     sync.Mutex
	stdout bytes.Buffer
	stderr bytes.Buffer
	calls  int
}

func (c *chunkRecorder) observe(ch Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++

	switch ch.Stream {
	case StreamStdout:
		c.stdout.Write(ch.Data)
	case StreamStderr:
		c.stderr.Write(ch.Data)
	}
}

func TestExecuteStreamObserver(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})
	rec := &chunkRecorder{}

	out, err := r.ExecuteStream(testContext(t), []string{"mixed"}, nil, rec.observe)
	require.NoError(t, err)

	assert.Contains(t, out, "out-line\n")
	assert.Contains(t, out, "err-line\n")
	assert.Equal(t, "out-line\n", rec.stdout.String())
	assert.Equal(t, "err-line\n", rec.stderr.String())
	assert.GreaterOrEqual(t, rec.calls, 2)
}

func TestExecuteStreamNilObserver(t *testing.T) {
	r := newFakeRunner(t, ExecOptions{})

	out, err := r.ExecuteStream(testContext(t), []string{"st"}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Drupal bootstrap")
}

func TestExecuteStreamArguments(t *testing.T) {
	r := newFakeRunner(t, ExecOptions{})

	out, err := r.ExecuteStream(testContext(t), []string{"args", "a;b", "$(id)"}, &Options{Alias: "@dev", URI: "http://example.test"}, nil)
	require.NoError(t, err)

	want := "alias:@dev\n" +
		"arg:a;b\n" +
		"arg:$(id)\n" +
		"arg:-l\n" +
		"arg:http://example.test\n" +
		"arg:-y\n"
	assert.Equal(t, want, out)
}

func TestExecuteStreamLine(t *testing.T) {
	r := newFakeRunner(t, ExecOptions{})

	out, err := r.ExecuteStreamLine(testContext(t), `args "one arg"`, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "arg:one arg\narg:-y\n", out)

	_, err = r.ExecuteStreamLine(testContext(t), `args "open`, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgs)
}

func TestExecuteStreamEcho(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})

	out, err := r.ExecuteStream(testContext(t), []string{"stdin"}, &Options{Echo: "hello"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecuteStreamCat(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})

	file := filepath.Join(t.TempDir(), "script.php")
	require.NoError(t, os.WriteFile(file, []byte("<?php\necho 1;\n"), 0o600))

	out, err := r.ExecuteStream(testContext(t), []string{"stdin"}, &Options{Cat: file}, nil)
	require.NoError(t, err)
	assert.Equal(t, "<?php\necho 1;\n", out)
}

func TestExecuteStreamCatUnreadInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})

	file := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(file, bytes.Repeat([]byte("0123456789abcdef\n"), 64*1024), 0o600))

	out, err := r.ExecuteStream(testContext(t), []string{"first"}, &Options{Cat: file}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef\n", out)
}

func TestExecuteStreamCatUnreadInputFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})

	file := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(file, bytes.Repeat([]byte("0123456789abcdef\n"), 64*1024), 0o600))

	_, err := r.ExecuteStream(testContext(t), []string{"fail"}, &Options{Cat: file}, nil)
	require.ErrorIs(t, err, ErrProcessExitedNonZero)
	require.NotErrorIs(t, err, ErrAuxiliaryProcessFailed)
}

func TestExecuteStreamCatMissingFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})

	missing := filepath.Join(t.TempDir(), "missing.sql")

	out, err := r.ExecuteStream(testContext(t), []string{"stdin"}, &Options{Cat: missing}, nil)
	require.ErrorIs(t, err, ErrAuxiliaryProcessFailed)
	require.NotErrorIs(t, err, ErrProcessExitedNonZero)
	assert.Empty(t, out)

	var auxErr *AuxiliaryError
	require.ErrorAs(t, err, &auxErr)
	assert.Equal(t, "cat", auxErr.Helper)
	assert.NotZero(t, auxErr.Code)
}

func TestExecuteStreamNonZeroExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})
	rec := &chunkRecorder{}

	_, err := r.ExecuteStream(testContext(t), []string{"fail"}, nil, rec.observe)
	require.ErrorIs(t, err, ErrProcessExitedNonZero)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, string(exitErr.Stderr), "fatal: something broke")
	assert.Contains(t, string(exitErr.Output), "fatal: something broke")
	assert.Equal(t, "fatal: something broke\n", rec.stderr.String())
}

func TestExecuteStreamStderrCapped(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{MaxBufferBytes: 1 << 20})

	_, err := r.ExecuteStream(testContext(t), []string{"noisyfail"}, nil, nil)
	require.ErrorIs(t, err, ErrProcessExitedNonZero)
	require.NotErrorIs(t, err, ErrOutputBufferExceeded)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Len(t, exitErr.Stderr, maxStderrCapture)
	assert.Len(t, exitErr.Output, 3000*33)
}

func TestExecuteStreamOutputBufferExceeded(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{MaxBufferBytes: 1024})

	out, err := r.ExecuteStream(testContext(t), []string{"flood"}, nil, nil)
	require.ErrorIs(t, err, ErrOutputBufferExceeded)
	assert.Empty(t, out)
}

func TestExecuteStreamTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{Timeout: 200 * time.Millisecond})

	_, err := r.ExecuteStream(testContext(t), []string{"sleep"}, nil, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, -1, exitErr.Code)
}

func TestExecuteStreamLogMirror(t *testing.T) {
	var buf bytes.Buffer

	r := newFakeRunner(t, ExecOptions{Log: true}, WithLogWriter(&buf))

	out, err := r.ExecuteStream(testContext(t), []string{"stdin"}, &Options{Echo: "mirrored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mirrored\n", out)
	assert.Equal(t, "mirrored\n", buf.String())
}

func TestExecuteStreamConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newFakeRunner(t, ExecOptions{})
	ctx := testContext(t)

	payloads := []string{"payload-one", "payload-two", "payload-three", "payload-four"}
	results := make([]string, len(payloads))
	errs := make([]error, len(payloads))
	recorders := make([]*chunkRecorder, len(payloads))

	var wg sync.WaitGroup

	for i, p := range payloads {
		recorders[i] = &chunkRecorder{}

		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = r.ExecuteStream(ctx, []string{"stdin"}, &Options{Echo: p}, recorders[i].observe)
		}()
	}

	wg.Wait()

	for i, p := range payloads {
		require.NoError(t, errs[i])
		assert.Equal(t, p+"\n", results[i])
		assert.Equal(t, p+"\n", recorders[i].stdout.String())
	}
}
