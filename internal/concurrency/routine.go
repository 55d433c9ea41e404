package concurrency

import (
	"log/slog"
	"runtime/debug"
)

// SafeGo runs fn in its own goroutine, recovering and logging any panic.
// A panicking tick consumer must not take down the rest of the process.
func SafeGo(fn func(), onPanic func(any)) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			slog.Error("Panic recovered", "panic", r, "stack", string(debug.Stack()))
			if onPanic != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
}
