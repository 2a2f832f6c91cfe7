package signal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler creates a context that cancels on SIGINT/SIGTERM.
// The returned stop function releases the signal registration.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// PrintCancellationMessage prints a cancellation notice to stderr.
func PrintCancellationMessage(commandName string) {
	_, _ = fmt.Fprintf(os.Stderr, "\n%s cancelled\n", commandName)
}
