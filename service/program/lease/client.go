package lease

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/service/runner"
)

// In-band manager conditions surfaced as sentinel errors so callers can
// back off (ErrLimit is expected and recoverable) or fix their bookkeeping
// (ErrInvalidID).
var (
	ErrLimit     = errors.New("resource limit reached")
	ErrInvalidID = errors.New("invalid resource id")
)

// Client is a typed, synchronous driver for a lease manager worker.
type Client struct {
	handle runner.Handle
}

// NewClient creates a client over a spawned lease worker handle.
func NewClient(handle runner.Handle) *Client {
	return &Client{handle: handle}
}

// Acquire claims a lease, returning its id.
func (c *Client) Acquire(ctx context.Context) (string, error) {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbAcquire)
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(reply, "GRANTED "):
		return strings.TrimPrefix(reply, "GRANTED "), nil
	case reply == protocol.ErrResourceLimit:
		return "", ErrLimit
	}
	return "", fmt.Errorf("unexpected ACQUIRE reply: %s", reply)
}

// Release returns a previously granted lease.
func (c *Client) Release(ctx context.Context, id string) error {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbRelease+" "+id)
	if err != nil {
		return err
	}
	switch {
	case strings.HasPrefix(reply, "OK Released "):
		return nil
	case reply == protocol.ErrInvalidID:
		return ErrInvalidID
	}
	return fmt.Errorf("unexpected RELEASE reply: %s", reply)
}

// Status reports the number of active and available leases.
func (c *Client) Status(ctx context.Context) (active, available int, err error) {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbStatus)
	if err != nil {
		return 0, 0, err
	}
	if _, err := fmt.Sscanf(reply, "INFO Active: %d, Available: %d", &active, &available); err != nil {
		return 0, 0, fmt.Errorf("unexpected STATUS reply: %s", reply)
	}
	return active, available, nil
}

// Quit terminates the manager. QUIT has no response line; the client waits
// for the worker to exit and releases the handle.
func (c *Client) Quit(ctx context.Context) error {
	if err := c.handle.WriteLine(ctx, protocol.VerbQuit); err != nil {
		return err
	}
	if err := c.handle.Wait(ctx); err != nil {
		return err
	}
	return c.handle.Close()
}
