package text

import (
	"context"
	"errors"
	"strings"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
)

const filterName = "filter"

// Filter forwards only lines containing its pattern argument. Dropped lines
// simply produce no output; survivors keep their relative order.
type Filter struct{}

// NewFilter creates a containment filter program
func NewFilter() *Filter {
	return &Filter{}
}

// Name returns the program name
func (s *Filter) Name() string {
	return filterName
}

// Serve filters the stream; args[0] is the pattern, an absent pattern lets
// everything through.
func (s *Filter) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
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
		if pattern != "" && !strings.Contains(line, pattern) {
			continue
		}
		if err := conn.Send(ctx, line); err != nil {
			return err
		}
	}
}
