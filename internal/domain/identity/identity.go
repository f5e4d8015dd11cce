// Package identity carries the per-request authentication result.
package identity

import "context"

// Identity is attached by the auth gate. Authenticated is true only when
// UserID came from a verified, unexpired token.
type Identity struct {
	Authenticated bool
	UserID        string
}

type ctxKey struct{}

func Anonymous() Identity { return Identity{} }

func Authenticated(userID string) Identity {
	if userID == "" {
		return Anonymous()
	}
	return Identity{Authenticated: true, UserID: userID}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity on ctx, or an anonymous one.
func FromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}
