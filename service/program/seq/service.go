// Package seq provides the generator stage used at the head of a pipeline:
// a single seed line "N" makes it emit the numbers 1..N, one per line.
package seq

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
)

const name = "seq"

// Service generates finite numeric sequences.
type Service struct{}

// New creates a sequence generator program
func New() *Service {
	return &Service{}
}

// Name returns the program name
func (s *Service) Name() string {
	return name
}

// Serve emits 1..N for every received seed line. The sequence plane is a
// stream, not request/response - one input line may produce many output
// lines, which the pipeline relay forwards downstream in order.
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
		count, err := strconv.Atoi(line)
		if err != nil || count < 0 {
			log.Printf("seq: ignoring invalid seed %q", line)
			continue
		}
		for i := 1; i <= count; i++ {
			if err := conn.Send(ctx, strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
}
