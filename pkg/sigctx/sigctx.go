package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals stop the application.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a copy of parent which is done on the first
// of [Signals] or when the returned stop func is called.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
