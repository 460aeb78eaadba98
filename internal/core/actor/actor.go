// Package actor provides request-scoped values extraction.
package actor

import (
	"context"
)

// Actor is the authenticated staff member performing an operation.
// The ledger denormalizes this onto every movement it writes.
type Actor struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, a)
}

// GetActor returns Actor from context, or nil when the call did not come
// through the authenticated HTTP surface (maintenance CLIs).
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns the actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}

// HasRole checks if the actor has a specific role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
