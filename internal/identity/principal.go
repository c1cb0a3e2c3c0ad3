package identity

import "context"

// Principal is the authenticated caller of a request
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

type contextKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored in ctx, if any
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok && p.UserID != 0
}
