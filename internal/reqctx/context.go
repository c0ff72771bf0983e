// Package reqctx carries per-request values shared by the HTTP and gRPC paths.
package reqctx

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// HeaderRequestID is used both as the HTTP header and the gRPC metadata key.
const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by the HTTP middleware, falling back to
// incoming gRPC metadata.
func RequestID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(HeaderRequestID); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
