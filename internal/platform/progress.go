package platform

import (
	"context"
	"fmt"
)

// ProgressFunc receives human-readable progress while a batch runs.
type ProgressFunc func(msg string)

type progressKey struct{}

// WithProgress returns a context carrying the given progress callback.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportProgress formats a message and hands it to the callback in ctx.
// Without a callback (MCP and HTTP modes) it does nothing.
func ReportProgress(ctx context.Context, format string, args ...any) {
	fn, ok := ctx.Value(progressKey{}).(ProgressFunc)
	if !ok || fn == nil {
		return
	}
	if len(args) > 0 {
		fn(fmt.Sprintf(format, args...))
		return
	}
	fn(format)
}
