package runner

import "context"

// Roundtrip sends a single command line and waits for exactly one response
// line - the synchronous request/response discipline used by protocol
// clients. Callers wanting bounded waits pass a context with a deadline;
// after a timeout the worker state is unknown and should be verified or the
// worker killed.
func Roundtrip(ctx context.Context, handle Handle, line string) (string, error) {
	if err := handle.WriteLine(ctx, line); err != nil {
		return "", err
	}
	return handle.ReadLine(ctx)
}
