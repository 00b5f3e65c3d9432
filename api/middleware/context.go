package middleware

import "context"

type contextKey string

const ctxOwner contextKey = "owner"

func OwnerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxOwner).(string); ok {
		return v
	}
	return ""
}

// WithOwner injects the owner identifier into the context.
func WithOwner(ctx context.Context, owner string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOwner, owner)
}
