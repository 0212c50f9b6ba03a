package channel

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send and Receive once a line stream has been
// closed and fully drained. Callers should treat it as the end of the
// conversation with the peer rather than a fault.
var ErrClosed = errors.New("channel closed")

// Line is an ordered, blocking FIFO of newline-delimited text lines with
// exactly one writer side and one reader side. It is the in-memory
// counterpart of a child process stdio stream: delivery is exactly-once and
// in-order, and both Send and Receive block until the peer is ready or the
// supplied context expires.
type Line struct {
	lines  chan string
	closed chan struct{}
	once   sync.Once
}

// NewLine creates a line stream with the supplied buffer size. A buffer of
// zero yields fully synchronous hand-off semantics - a writer blocks until
// the reader picks the line up.
func NewLine(buffer int) *Line {
	if buffer < 0 {
		buffer = 0
	}
	return &Line{
		lines:  make(chan string, buffer),
		closed: make(chan struct{}),
	}
}

// Send delivers a single line to the reader side. It blocks until the line
// is accepted, the stream is closed or ctx expires.
func (l *Line) Send(ctx context.Context, line string) error {
	select {
	case <-l.closed:
		return ErrClosed
	default:
	}
	select {
	case l.lines <- line:
		return nil
	case <-l.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the next line in FIFO order. After Close it keeps draining
// lines that were sent before the close and only then reports ErrClosed.
func (l *Line) Receive(ctx context.Context) (string, error) {
	select {
	case line := <-l.lines:
		return line, nil
	case <-l.closed:
		// Drain what was buffered before the close.
		select {
		case line := <-l.lines:
			return line, nil
		default:
			return "", ErrClosed
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close marks the stream closed. It is safe to call multiple times and from
// either side; pending Receive calls drain buffered lines first.
func (l *Line) Close() {
	l.once.Do(func() {
		close(l.closed)
	})
}
