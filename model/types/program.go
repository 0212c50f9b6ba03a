package types

import (
	"context"

	"github.com/viant/procio/model/channel"
)

// Program is a named, long-lived unit of execution. Serve is the worker-side
// read loop: it keeps reading command lines from conn, performs the work and
// writes response lines back until it observes the sentinel, the peer closes
// the channel, or ctx is cancelled. A program never emits unsolicited output
// outside Serve's command handling.
//
// The same Program value runs either in-process (memory runner) or hosted in
// a child process over real stdin/stdout (exec runner).
type Program interface {
	Name() string
	Serve(ctx context.Context, conn channel.Conn, args ...string) error
}
