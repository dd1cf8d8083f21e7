// Package console implements the output sink collaborator: a line writer
// that flushes after every envelope so output order matches input order
// even when the process is killed mid-stream.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	errspkg "github.com/streamweld/consolesink/internal/sink/errors"
)

// Sink writes formatted lines to an io.Writer, flushing per call.
type Sink struct {
	mu    sync.Mutex
	buf   *bufio.Writer
	lines int
}

// NewSink wraps w. Writes fail with ErrOutputRequired when w is nil.
func NewSink(w io.Writer) *Sink {
	s := &Sink{}
	if w != nil {
		s.buf = bufio.NewWriter(w)
	}
	return s
}

// WriteLines writes each line followed by a newline, then flushes. A write
// or flush failure means the output can no longer be delivered, so the
// error is terminal for the run.
func (s *Sink) WriteLines(lines ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return errspkg.ErrOutputRequired
	}

	for _, line := range lines {
		if _, err := s.buf.WriteString(line); err != nil {
			return fmt.Errorf("%w: %v", errspkg.ErrSinkWrite, err)
		}
		if err := s.buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: %v", errspkg.ErrSinkWrite, err)
		}
		s.lines++
	}

	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", errspkg.ErrSinkWrite, err)
	}
	return nil
}

// Lines returns the number of lines written so far.
func (s *Sink) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}
