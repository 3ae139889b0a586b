package contextkeys

import (
	"context"
	"marketplace-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger помещает логгер запроса в контекст
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext возвращает логгер из контекста.
// Фоновые вызовы (диспетчер SSE, публикация в RabbitMQ) могут идти без логгера, тогда пишем в никуда.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return discardLogger{}
}

// WithLoggerFields дополняет логгер в контексте полями и возвращает новый контекст.
func WithLoggerFields(ctx context.Context, fields port.Fields) context.Context {
	return ContextWithLogger(ctx, LoggerFromContext(ctx).WithFields(fields))
}

type discardLogger struct{}

func (discardLogger) Info(string, port.Fields)                 {}
func (discardLogger) Warn(string, port.Fields)                 {}
func (discardLogger) Error(string, error, port.Fields)         {}
func (discardLogger) Debug(string, port.Fields)                {}
func (d discardLogger) WithFields(port.Fields) port.LoggerPort { return d }
