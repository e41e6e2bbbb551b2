package logger

import (
	"context"

	pcontext "github.com/c3i/c3i/pkg/context"
)

// WithContext returns a logger that adds the run ID, configuration and
// operation carried by ctx to every entry.
func WithContext(ctx context.Context, log Logger) Logger {
	if ctx == nil {
		return log
	}
	if name := pcontext.GetConfiguration(ctx); name != "" {
		log = log.WithConfiguration(name)
	}
	return &contextualLogger{ctx: ctx, logger: log}
}

type contextualLogger struct {
	ctx    context.Context
	logger Logger
}

// contextFields extracts tracing fields from the context
func contextFields(ctx context.Context, fields []Field) []Field {
	var out []Field
	if id := pcontext.GetRunID(ctx); id != "" {
		out = append(out, WithField("run", id))
	}
	if op := pcontext.GetOperation(ctx); op != "" {
		out = append(out, WithField("operation", op))
	}
	return append(out, fields...)
}

func (cl *contextualLogger) Info(message string, fields ...Field) {
	cl.logger.Info(message, contextFields(cl.ctx, fields)...)
}

func (cl *contextualLogger) Error(message string, fields ...Field) {
	cl.logger.Error(message, contextFields(cl.ctx, fields)...)
}

func (cl *contextualLogger) Warn(message string, fields ...Field) {
	cl.logger.Warn(message, contextFields(cl.ctx, fields)...)
}

func (cl *contextualLogger) Debug(message string, fields ...Field) {
	cl.logger.Debug(message, contextFields(cl.ctx, fields)...)
}

func (cl *contextualLogger) Success(message string, fields ...Field) {
	cl.logger.Success(message, contextFields(cl.ctx, fields)...)
}

func (cl *contextualLogger) WithConfiguration(name string) Logger {
	return &contextualLogger{ctx: cl.ctx, logger: cl.logger.WithConfiguration(name)}
}
