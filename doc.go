// Package procio provides a process-oriented concurrency substrate: a
// supervising driver spawns long-lived worker subprocesses and exchanges
// newline-delimited textual commands and responses with them over
// bidirectional byte-stream channels.
//
// The same substrate powers four shapes:
//
//   - dispatcher – a fixed worker pool with round-robin task distribution
//   - pipeline   – a generate→transform→filter stage chain
//   - kv         – a line-protocol request/response key-value service
//   - lease      – a bounded resource-leasing service
//
// procio is designed to be embedded in host applications. End-users
// typically interact via the high-level Service façade exposed by the root
// package:
//
//	srv := procio.New()
//	rt := srv.Runtime()
//	pool, _ := rt.NewPool(dispatcher.WithProgram("echo"), dispatcher.WithWorkers(3))
//	_ = pool.Start(ctx)
//	_ = pool.Submit(ctx, dispatcher.Task{Payload: "work"})
//	_ = pool.Shutdown(ctx)
//
// For more details see the README and individual sub-packages.
package procio
