// Package logging defines the minimal structured-logging interface used
// across memberkit. Storage adapters and services log through it instead of
// writing to stderr directly, so storage faults can be contained without
// losing the trail.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key–value pairs:
//
//	log.Warn(ctx, "corrupted record ignored", "key", key)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
