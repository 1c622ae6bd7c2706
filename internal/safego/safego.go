// Package safego launches goroutines that turn panics into log records.
// The portal runs a few fire-and-forget goroutines for the life of the
// process (the standalone metrics listener, the rate limiter janitors); a
// panic in one of those should show up in the logs, not kill the server or
// die silently.
package safego

import "log/slog"

// Go runs fn on a new goroutine, recovering and logging any panic.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered panic in background goroutine", "panic", r)
			}
		}()
		fn()
	}()
}
