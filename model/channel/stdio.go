package channel

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// Stdio adapts a raw reader/writer pair (typically os.Stdin/os.Stdout of a
// hosted worker process) to the Conn contract. Reads are pumped by a
// dedicated goroutine so Receive honours context cancellation even though
// the underlying reader blocks.
type Stdio struct {
	writer io.Writer
	lines  chan string
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
}

// NewStdio creates a Conn backed by the supplied streams.
func NewStdio(reader io.Reader, writer io.Writer) *Stdio {
	s := &Stdio{
		writer: writer,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	go s.pump(reader)
	return s
}

func (s *Stdio) pump(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-s.done:
			return
		}
	}
	s.Close()
}

// Receive returns the next inbound line or ErrClosed on EOF.
func (s *Stdio) Receive(ctx context.Context) (string, error) {
	select {
	case line := <-s.lines:
		return line, nil
	case <-s.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Send writes a single newline-terminated response line.
func (s *Stdio) Send(ctx context.Context, line string) error {
	select {
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.writer, line+"\n")
	return err
}

// Close stops the read pump; it is safe to call multiple times.
func (s *Stdio) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}
