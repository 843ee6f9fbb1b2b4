package logger

import (
	"context"
	"sync/atomic"
)

type contextKey string

const (
	dbCounterKey contextKey = "db_operation_counter"
	dbElapsedKey contextKey = "db_elapsed_nanos"
)

// WithDBCounter attaches a statement counter and an elapsed time
// accumulator to ctx. Tracked connections update both on every statement.
func WithDBCounter(ctx context.Context) context.Context {
	var counter, elapsed int64
	ctx = context.WithValue(ctx, dbCounterKey, &counter)
	return context.WithValue(ctx, dbElapsedKey, &elapsed)
}

// IncrementDBCounter is a no-op when ctx carries no counter.
func IncrementDBCounter(ctx context.Context) {
	if counter, ok := ctx.Value(dbCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
}

// GetDBCounter returns the number of statements recorded in ctx.
func GetDBCounter(ctx context.Context) int64 {
	if counter, ok := ctx.Value(dbCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// AddDBElapsed adds nanos to the elapsed accumulator in ctx.
func AddDBElapsed(ctx context.Context, nanos int64) {
	if elapsed, ok := ctx.Value(dbElapsedKey).(*int64); ok && elapsed != nil {
		atomic.AddInt64(elapsed, nanos)
	}
}

// GetDBElapsed returns the accumulated statement time in nanoseconds.
func GetDBElapsed(ctx context.Context) int64 {
	if elapsed, ok := ctx.Value(dbElapsedKey).(*int64); ok && elapsed != nil {
		return atomic.LoadInt64(elapsed)
	}
	return 0
}
