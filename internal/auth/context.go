package auth

import "context"

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext returns the authenticated user stored by the auth
// middleware, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

// ContextWithUser stores the authenticated user for downstream handlers.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
