// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package capture

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
)

const maxPartialLine = 4096 // Longest unterminated line kept for LastLine

// ErrLimitExceeded is returned when the captured output grows past the configured limit.
var ErrLimitExceeded = errors.New("output exceeds max buffer size")

// Stream identifies which output stream of the child process a chunk came from.
type Stream int

const (
	// Stdout is the standard output stream.
	Stdout Stream = iota
	// Stderr is the standard error stream.
	Stderr
)

// String implements the Stringer interface for Stream.
func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Chunk is a single write made by the child process.
type Chunk struct {
	Stream Stream // Stream the data was written to
	Data   []byte // Data is a copy and may be retained by the receiver
}

// Buffer accumulates the output of one process invocation.
// It is safe for concurrent use; observer and mirror calls are serialized.
type Buffer struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	limit      int64
	exceeded   bool
	observer   func(Chunk)
	mirror     io.Writer
	onExceeded func()
	lastLine   string
	partial    strings.Builder
}

// Option implements a functional options pattern for Buffer.
type Option func(b *Buffer)

// WithObserver sets a function that receives every chunk as it is written.
func WithObserver(fn func(Chunk)) Option {
	return func(b *Buffer) {
		b.observer = fn
	}
}

// WithMirror copies every chunk to w. Write errors on the mirror are ignored.
func WithMirror(w io.Writer) Option {
	return func(b *Buffer) {
		b.mirror = w
	}
}

// WithOnExceeded sets a function that is called once, the first time the limit is exceeded.
func WithOnExceeded(fn func()) Option {
	return func(b *Buffer) {
		b.onExceeded = fn
	}
}

// New creates a Buffer. A limit of zero or less means unbounded.
func New(limit int64, opts ...Option) *Buffer {
	b := &Buffer{
		limit: limit,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Writer returns an io.Writer that records writes as chunks of stream s.
func (b *Buffer) Writer(s Stream) io.Writer {
	return &streamWriter{b: b, stream: s}
}

type streamWriter struct {
	b      *Buffer
	stream Stream
}

// Write never returns an error so the process copy loop keeps draining the pipe,
// overflow is reported through Exceeded instead.
func (w *streamWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.b.record(w.stream, p)

	return len(p), nil
}

func (b *Buffer) record(s Stream, p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.observer != nil {
		b.observer(Chunk{Stream: s, Data: bytes.Clone(p)})
	}

	if b.mirror != nil {
		_, _ = b.mirror.Write(p)
	}

	b.trackLines(p)

	if b.exceeded {
		return
	}

	if b.limit > 0 && int64(b.buf.Len()+len(p)) > b.limit {
		b.buf.Write(p[:b.limit-int64(b.buf.Len())])
		b.exceeded = true

		if b.onExceeded != nil {
			b.onExceeded()
		}

		return
	}

	b.buf.Write(p)
}

// trackLines keeps the last complete line seen across all streams.
// Must be called with the lock held.
func (b *Buffer) trackLines(p []byte) {
	b.partial.Write(p)

	combined := b.partial.String()

	idx := strings.LastIndexByte(combined, '\n')
	if idx < 0 {
		if len(combined) > maxPartialLine {
			b.partial.Reset()
			b.partial.WriteString(combined[len(combined)-maxPartialLine:])
		}

		return
	}

	complete := combined[:idx]
	if prev := strings.LastIndexByte(complete, '\n'); prev >= 0 {
		complete = complete[prev+1:]
	}

	b.lastLine = complete
	b.partial.Reset()
	b.partial.WriteString(combined[idx+1:])
}

// Bytes returns a copy of the captured output.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

// String returns the captured output as a string.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// Len returns the number of bytes captured.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Len()
}

// Exceeded reports whether the output grew past the limit.
func (b *Buffer) Exceeded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exceeded
}

// Err returns ErrLimitExceeded if the limit was exceeded, nil otherwise.
func (b *Buffer) Err() error {
	if b.Exceeded() {
		return ErrLimitExceeded
	}

	return nil
}

// LastLine returns the last complete line written to any stream, truncated to
// maxLength with a trailing "..." when maxLength > 0.
func (b *Buffer) LastLine(maxLength int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	line := b.lastLine
	if maxLength > 3 && len(line) > maxLength {
		line = line[:maxLength-3] + "..."
	}

	return line
}
