package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a read is abandoned because its
// context ended.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads answers line by line without blocking past context
// cancellation. A single goroutine owns the underlying reader, so a line
// that arrives after a canceled read is kept for the next one.
type LineReader struct {
	src   io.Reader
	err   error
	lines chan string
	start sync.Once
}

// NewLineReader wraps src. Reading starts on the first ReadLine.
func NewLineReader(src io.Reader) *LineReader {
	if src == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{src: src, lines: make(chan string)}
}

func (r *LineReader) pump() {
	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		r.lines <- scanner.Text()
	}
	r.err = scanner.Err()
	if r.err == nil {
		r.err = io.EOF
	}
	close(r.lines)
}

// ReadLine returns the next line with surrounding whitespace removed, or
// io.EOF once the input is exhausted.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case line, ok := <-r.lines:
		if !ok {
			return "", r.err
		}
		return strings.TrimSpace(line), nil
	}
}
