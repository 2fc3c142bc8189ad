package log

import (
	"context"
)

type loggerKey struct{}

// NewContext context with a logger carrying tags
func NewContext(ctx context.Context, tags map[string]any) context.Context {
	return context.WithValue(ctx, loggerKey{}, std.newWithTags(tags))
}

// NewContextWithLogger context with the logger
func NewContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Inject add tags to the logger of the context
func Inject(ctx context.Context, tags map[string]any) {
	if ctxLogger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		ctxLogger.Inject(tags)
	}
}

// Extract logger from context, the default logger when there is none.
func Extract(ctx context.Context) Logger {
	if ctx == nil {
		return std
	}
	if ctxLogger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return ctxLogger
	}
	return std
}
