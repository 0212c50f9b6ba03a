// Package lease provides the resource manager: a single worker enforcing a
// hard cap on concurrently outstanding leases via ACQUIRE/RELEASE/STATUS.
package lease

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/viant/procio/internal/clock"
	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/service/dao/store"
)

// Name is the program name the service registers under.
const Name = "lease"

// DefaultCapacity applies when no capacity argument is supplied.
const DefaultCapacity = 3

// Lease is a capacity-accounted claim held in the manager's table.
type Lease struct {
	ID        string    `json:"id"`
	Active    bool      `json:"active"`
	GrantedAt time.Time `json:"grantedAt"`
}

// Service enforces the lease capacity. The table is mutated only inside the
// serve loop; the invariant active <= capacity holds at all times.
type Service struct{}

// New creates a resource manager program
func New() *Service {
	return &Service{}
}

// Name returns the program name
func (s *Service) Name() string {
	return Name
}

// Serve runs the command loop; args[0] optionally overrides the capacity.
// Lease ids derive from a counter that only ever grows, so an id is never
// reused even after its lease has been released.
func (s *Service) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	capacity := DefaultCapacity
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
			capacity = parsed
		}
	}
	table := store.NewMemoryStore[string, Lease](func(l *Lease) string { return l.ID })
	active := 0
	counter := 0

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
		case protocol.KindAcquire:
			if active >= capacity {
				reply = protocol.ErrResourceLimit
				break
			}
			counter++
			lease := &Lease{
				ID:        fmt.Sprintf("resource-%d", counter),
				Active:    true,
				GrantedAt: clock.Now(),
			}
			_ = table.Save(ctx, lease)
			active++
			reply = protocol.ReplyGranted(lease.ID)
		case protocol.KindRelease:
			lease, _ := table.Load(ctx, command.Key)
			if lease == nil || !lease.Active {
				reply = protocol.ErrInvalidID
				break
			}
			_ = table.Delete(ctx, lease.ID)
			active--
			reply = protocol.ReplyReleased(lease.ID)
		case protocol.KindStatus:
			reply = protocol.ReplyInfo(active, capacity-active)
		case protocol.KindQuit:
			// The loop exits without a forced response.
			return nil
		default:
			reply = protocol.ErrUnknownCommand
		}
		if err := conn.Send(ctx, reply); err != nil {
			return err
		}
	}
}
