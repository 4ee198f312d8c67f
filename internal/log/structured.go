package log

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// StructuredLogger writes the recurring log records of the service: HTTP
// start and end, persistence command outcomes and failures.
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

func (sl *StructuredLogger) log(ctx context.Context, level slog.Level, msg string, fields LogFields) {
	if _, ok := fields[FieldComponent]; !ok {
		fields.WithComponent(sl.logger.component)
	}
	sl.logger.Logger.Log(ctx, level, msg, fields.ToSlice()...)
}

// LogHTTPStart logs the start of an HTTP request
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.log(ctx, slog.LevelDebug, "HTTP request started", fields)
}

// LogHTTPEnd logs the completion of an HTTP request. 4xx logs at warn, 5xx at error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.log(ctx, level, "HTTP request completed", fields)
}

// LogCommand records the outcome of a persistence command. Refusals log at warn.
func (sl *StructuredLogger) LogCommand(ctx context.Context, operation, action string, success bool, message string) {
	fields := NewFields().
		WithOperation(operation, action).
		WithOutcome(success, message)

	if success {
		sl.log(ctx, slog.LevelInfo, "Command completed", fields)
		return
	}
	sl.log(ctx, slog.LevelWarn, "Command refused", fields)
}

// LogError logs err with its category. A cancelled request is not a server
// fault and logs at warn.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	errType := ErrorType(err)
	fields.WithError(err).WithOperation(operation, "")
	fields[FieldErrorType] = errType

	level := slog.LevelError
	if errType == ErrorTypeCanceled {
		level = slog.LevelWarn
	}
	sl.log(ctx, level, msg, fields)
}

// ErrorType classifies err for the error_type field.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	default:
		return ErrorTypeInternal
	}
}
