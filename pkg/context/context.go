// Package context carries per-run tracing values on a context.Context
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const (
	runIDKey contextKey = iota
	configurationKey
	operationKey
	startTimeKey
)

// WithRunID adds a run ID to the context, generating one when empty
func WithRunID(parent context.Context, runID string) context.Context {
	if runID == "" {
		runID = GenerateRunID()
	}
	return context.WithValue(parent, runIDKey, runID)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return id
	}
	return ""
}

// WithConfiguration records the configuration currently being built
func WithConfiguration(parent context.Context, name string) context.Context {
	return context.WithValue(parent, configurationKey, name)
}

// GetConfiguration retrieves the configuration name from context
func GetConfiguration(ctx context.Context) string {
	if name, ok := ctx.Value(configurationKey).(string); ok {
		return name
	}
	return ""
}

// WithOperation adds an operation name to the context
func WithOperation(parent context.Context, operation string) context.Context {
	return context.WithValue(parent, operationKey, operation)
}

// GetOperation retrieves the operation name from context
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok {
		return op
	}
	return ""
}

// WithStartTime adds the operation start time to the context
func WithStartTime(parent context.Context, startTime time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, startTime)
}

// GetDuration returns the time elapsed since the start time in context, or zero
func GetDuration(ctx context.Context) time.Duration {
	if t, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(t)
	}
	return 0
}

// GenerateRunID creates a new unique run ID
func GenerateRunID() string {
	return "run_" + uuid.New().String()
}

// NewRun returns a context carrying a fresh run ID and start time
func NewRun(parent context.Context) context.Context {
	ctx := parent
	if GetRunID(ctx) == "" {
		ctx = WithRunID(ctx, "")
	}
	return WithStartTime(ctx, time.Now())
}
