package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the request's session; the session middleware calls it
// once per request.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request's session, or nil outside the session
// middleware. A nil session reports itself locked.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// UnlockedFromContext reports whether the request carries an unlocked session.
func UnlockedFromContext(ctx context.Context) bool {
	return SessionFromContext(ctx).Unlocked()
}
