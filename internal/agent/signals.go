package agent

import (
	"context"
	"os"
	"os/signal"
)

// WithInterrupt returns a context cancelled on Ctrl+C, so an interrupted
// scheduled run still reaches the reporting path instead of dying mid-step.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
