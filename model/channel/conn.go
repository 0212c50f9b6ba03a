package channel

import "context"

// Conn is the worker-facing view of a channel pair: commands arrive via
// Receive, responses leave via Send. Exactly one driver and one worker share
// a Conn; no third party may read or write it.
type Conn interface {
	// Receive blocks until the next command line arrives.
	Receive(ctx context.Context) (string, error)

	// Send writes a single response line.
	Send(ctx context.Context, line string) error

	// Close releases both directions; subsequent calls are no-ops.
	Close() error
}

type pipeConn struct {
	in  *Line
	out *Line
}

// Join pairs an inbound and an outbound line stream into a worker Conn.
func Join(in, out *Line) Conn {
	return &pipeConn{in: in, out: out}
}

func (c *pipeConn) Receive(ctx context.Context) (string, error) {
	return c.in.Receive(ctx)
}

func (c *pipeConn) Send(ctx context.Context, line string) error {
	return c.out.Send(ctx, line)
}

func (c *pipeConn) Close() error {
	c.out.Close()
	c.in.Close()
	return nil
}
