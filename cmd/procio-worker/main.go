// Command procio-worker hosts a registered worker program over stdio so that
// the exec runner can drive it as a real subprocess:
//
//	procio-worker <program> [args...]
//
// Commands arrive one per line on stdin; responses leave one per line on
// stdout. Progress and diagnostics go to stderr. The process exits when the
// program returns, typically after its shutdown sentinel or on stdin EOF.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/viant/procio"
	"github.com/viant/procio/model/channel"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <program> [args...]\n", os.Args[0])
		os.Exit(2)
	}
	name := os.Args[1]
	srv := procio.New()
	program := srv.Programs().Lookup(name)
	if program == nil {
		fmt.Fprintf(os.Stderr, "unknown program: %q (available: %s)\n",
			name, strings.Join(srv.Programs().Names(), ", "))
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn := channel.NewStdio(os.Stdin, os.Stdout)
	defer conn.Close()

	if err := program.Serve(ctx, conn, os.Args[2:]...); err != nil {
		if errors.Is(err, channel.ErrClosed) || errors.Is(err, context.Canceled) {
			return
		}
		log.Fatalf("%v: %v", name, err)
	}
}
