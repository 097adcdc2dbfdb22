// Package logging provides run ID tracing so every event of one flow can be correlated.
package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const runIDKey contextKey = "run_id"

// NewRunID generates a unique, time-sortable run ID.
func NewRunID() string {
	return ulid.Make().String()
}

// WithRunID adds a run ID to context.
// If id is empty, generates a new one.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunID extracts the run ID from context.
// Returns empty string if not present.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a logger for component tagged with the context's run ID.
func FromContext(ctx context.Context, component string) *Logger {
	return New(component).WithRun(RunID(ctx))
}
