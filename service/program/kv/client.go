package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/service/runner"
)

// Client is a typed, synchronous driver for a kv worker. One channel, one
// client at a time - concurrent callers need their own worker instance.
type Client struct {
	handle runner.Handle
}

// NewClient creates a client over a spawned kv worker handle.
func NewClient(handle runner.Handle) *Client {
	return &Client{handle: handle}
}

// Set stores a key/value mapping.
func (c *Client) Set(ctx context.Context, key, value string) error {
	reply, err := runner.Roundtrip(ctx, c.handle, fmt.Sprintf("%s %s %s", protocol.VerbSet, key, value))
	if err != nil {
		return err
	}
	if reply != protocol.ReplyOK {
		return fmt.Errorf("unexpected SET reply: %s", reply)
	}
	return nil
}

// Get looks a key up; the boolean reports presence.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbGet+" "+key)
	if err != nil {
		return "", false, err
	}
	switch {
	case strings.HasPrefix(reply, "VALUE "):
		return strings.TrimPrefix(reply, "VALUE "), true, nil
	case reply == protocol.ReplyNotFound:
		return "", false, nil
	}
	return "", false, fmt.Errorf("unexpected GET reply: %s", reply)
}

// List enumerates the stored keys.
func (c *Client) List(ctx context.Context) ([]string, error) {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbList)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(reply, "KEYS") {
		return nil, fmt.Errorf("unexpected LIST reply: %s", reply)
	}
	fields := strings.Fields(strings.TrimPrefix(reply, "KEYS"))
	return fields, nil
}

// Quit asks the worker to terminate, waits for it to exit and releases the
// handle.
func (c *Client) Quit(ctx context.Context) error {
	reply, err := runner.Roundtrip(ctx, c.handle, protocol.VerbQuit)
	if err != nil {
		return err
	}
	if reply != protocol.ReplyBye {
		return fmt.Errorf("unexpected QUIT reply: %s", reply)
	}
	if err := c.handle.Wait(ctx); err != nil {
		return err
	}
	return c.handle.Close()
}
