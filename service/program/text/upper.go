// Package text provides line-transforming pipeline stages.
package text

import (
	"context"
	"errors"
	"strings"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
)

const upperName = "upper"

// Upper rewrites every line to upper case.
type Upper struct{}

// NewUpper creates an upper-case transform program
func NewUpper() *Upper {
	return &Upper{}
}

// Name returns the program name
func (s *Upper) Name() string {
	return upperName
}

// Serve transforms one line per input line, preserving order.
func (s *Upper) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
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
		if err := conn.Send(ctx, strings.ToUpper(line)); err != nil {
			return err
		}
	}
}
