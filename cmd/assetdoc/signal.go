package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals end a running serve. SIGTERM is never delivered on
// Windows, so there only Ctrl-C counts.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// notifyContext derives the command context from parent and cancels it on
// the first shutdown signal. stop releases the signal handler.
func notifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
