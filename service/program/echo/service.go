package echo

import (
	"context"
	"errors"
	"log"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
)

const name = "echo"

// Service is the simplest pool worker: it answers every task line with the
// same line. Progress is reported on the log side channel, never on the
// protocol stream.
type Service struct{}

// New creates an echo program
func New() *Service {
	return &Service{}
}

// Name returns the program name
func (s *Service) Name() string {
	return name
}

// Serve runs the read loop until the sentinel or end of stream.
func (s *Service) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	for {
		line, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrClosed) {
				return nil
			}
			return err
		}
		if protocol.IsSentinel(line) {
			return nil
		}
		log.Printf("echo: processed %q", line)
		if err := conn.Send(ctx, line); err != nil {
			return err
		}
	}
}
