package main

import (
	"fmt"
	"os"
	"unicode"

	"github.com/detent/runview/cmd"
	"github.com/detent/runview/internal/sentry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Defers run LIFO: RecoverAndPanic is deferred first so it runs last,
	// after cleanup has flushed any captured panic.
	defer sentry.RecoverAndPanic()
	cleanup := sentry.Init(cmd.Version)
	defer cleanup()

	if err := cmd.Execute(); err != nil {
		sentry.CaptureError(err)
		errMsg := err.Error()
		if errMsg != "" {
			runes := []rune(errMsg)
			runes[0] = unicode.ToUpper(runes[0])
			errMsg = string(runes)
		}
		_, _ = fmt.Fprintf(os.Stderr, "✗ %s\n", errMsg)
		return 1
	}
	return 0
}
