package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// terminationSignals cancel an evaluation in progress.
var terminationSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// runContext derives the context of one evaluation or sampling run. It is
// canceled when timeout elapses or a termination signal arrives, whichever
// comes first. A non-positive timeout leaves only the signal handling.
//
// The returned stop function releases the timer and the signal handler and
// must be called once the run is over.
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stopSignals := signal.NotifyContext(parent, terminationSignals...)
	if timeout <= 0 {
		return ctx, stopSignals
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancelTimeout()
		stopSignals()
	}
}
