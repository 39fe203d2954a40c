package application

import "context"

type traceIDKey struct{}

// WithTraceID tags ctx with the correlation id that outbound events inherit.
// Inbound transports set it from the request id or the consumed envelope.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
