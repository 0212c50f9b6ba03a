// Package kv provides the request/response key-value service: a single
// long-lived worker answering SET/GET/LIST/QUIT commands over its channel,
// exactly one response line per command, in command order.
package kv

import (
	"context"
	"errors"
	"sort"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
)

// Name is the program name the service registers under.
const Name = "kv"

// Service owns an in-memory mapping mutated exclusively inside its own
// serve loop - no other goroutine ever touches it, which removes data races
// by construction.
type Service struct{}

// New creates a key-value program
func New() *Service {
	return &Service{}
}

// Name returns the program name
func (s *Service) Name() string {
	return Name
}

// Serve runs the command loop. State machine per instance:
// idle -> processing -> idle, terminal after QUIT.
func (s *Service) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	store := make(map[string]string)
	for {
		line, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrClosed) {
				return nil
			}
			return err
		}
		command := protocol.Parse(line)
		var reply string
		switch command.Kind {
		case protocol.KindSet:
			if command.Key == "" {
				reply = protocol.ErrUnknownCommand
				break
			}
			store[command.Key] = command.Value
			reply = protocol.ReplyOK
		case protocol.KindGet:
			if command.Key == "" {
				reply = protocol.ErrUnknownCommand
				break
			}
			if value, ok := store[command.Key]; ok {
				reply = protocol.ReplyValue(value)
			} else {
				reply = protocol.ReplyNotFound
			}
		case protocol.KindList:
			keys := make([]string, 0, len(store))
			for key := range store {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			reply = protocol.ReplyKeys(keys)
		case protocol.KindQuit:
			return conn.Send(ctx, protocol.ReplyBye)
		default:
			reply = protocol.ErrUnknownCommand
		}
		if err := conn.Send(ctx, reply); err != nil {
			return err
		}
	}
}
