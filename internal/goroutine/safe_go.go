package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/kontribute/kontribute-backend/internal/logger"
)

// SafeGo runs fn in a goroutine and logs instead of crashing on panic.
func SafeGo(fn func()) {
	go func() {
		defer recoverAndLog("goroutine")
		fn()
	}()
}

// SafeGoWithContext is SafeGo for functions bound to a context.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverAndLog("goroutine (with context)")
		fn(ctx)
	}()
}

func recoverAndLog(where string) {
	if r := recover(); r != nil {
		logger.Log.WithField("stack", string(debug.Stack())).Errorf("panic in %s: %v", where, r)
	}
}
