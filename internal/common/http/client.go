package http

import "context"

type clientIDKeyType struct{}

var clientIDKey clientIDKeyType

// WithClientID records an authenticated caller id. Rate limiting keys on it
// instead of the remote address when present.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}
