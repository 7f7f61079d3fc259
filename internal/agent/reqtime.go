package agent

import (
	"context"
	"time"
)

type startTimeKey struct{}

// WithStartTime records when the request entered the pipeline. Threaded
// through the call chain instead of living in a package global so
// concurrent requests keep independent timing.
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

// ElapsedMs returns milliseconds since the request start, or 0 when no
// start time was recorded.
func ElapsedMs(ctx context.Context) int64 {
	t, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(t).Milliseconds()
}
