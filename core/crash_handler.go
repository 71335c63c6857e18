package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu       sync.Mutex
	crashFinalize func()

	// Overridden in tests
	crashOutput io.Writer = os.Stderr
	crashExit             = os.Exit
)

// SetCrashFinalizer registers the cleanup run before a crash report, typically
// the terminal screen's Fini. Passing nil clears it.
func SetCrashFinalizer(fn func()) {
	crashMu.Lock()
	crashFinalize = fn
	crashMu.Unlock()
}

// HandleCrash restores the terminal, prints the panic value with a stack trace and exits.
// A nil value is a no-op so it can be deferred as HandleCrash(recover()).
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	fn := crashFinalize
	crashFinalize = nil
	crashMu.Unlock()
	if fn != nil {
		fn()
	}

	fmt.Fprintf(crashOutput, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOutput, "Stack Trace:\r\n%s\r\n", debug.Stack())
	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			HandleCrash(recover())
		}()
		fn()
	}()
}
