// Package contextkeys переносит через context.Context логгер запроса и trace_id.
package contextkeys

import (
	"context"

	"moderation-console/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext никогда не возвращает nil: без логгера в контексте
// записи отбрасываются.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return discard{}
}

type discard struct{}

func (discard) Info(string, port.Fields)         {}
func (discard) Warn(string, port.Fields)         {}
func (discard) Error(string, error, port.Fields) {}
func (discard) Debug(string, port.Fields)        {}
func (d discard) WithFields(port.Fields) port.LoggerPort {
	return d
}
