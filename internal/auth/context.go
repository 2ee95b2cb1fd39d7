package auth

import "context"

type contextKey struct{}

// AuthContext carries the authenticated session through a request. A
// zero SessionID with Open=true means the deployment has no access password
// and runs unauthenticated.
type AuthContext struct {
	SessionID int64
	Open      bool
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// SessionID returns the session behind the request, 0 when the instance runs
// open or the request is unauthenticated.
func SessionID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.SessionID
}
