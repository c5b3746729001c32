// internal/reqctx/reqctx.go
package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keyAdminID
	keyAdminEmail
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithAdmin stores the authenticated admin established by the session middleware.
func WithAdmin(ctx context.Context, id int64, email string) context.Context {
	ctx = context.WithValue(ctx, keyAdminID, id)
	return context.WithValue(ctx, keyAdminEmail, email)
}

func GetAdminID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(keyAdminID).(int64)
	return v, ok
}

func GetAdminEmail(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyAdminEmail).(string)
	return v, ok
}
