package contextkeys

import "context"

type traceKey struct{}

// ContextWithTraceID сохраняет X-Trace-ID запроса; он уходит дальше в справочник регионов и в RabbitMQ.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFromContext - пустая строка, если запрос пришел не через HTTP.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
