// Package ctxutil provides the acting consultant and helpers to carry it in a
// context. This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// Role is a consultant permission level as stored in the consultants table.
type Role string

const (
	RoleConsultant Role = "consultor"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleConsultant || r == RoleSupervisor
}

// Actor is the ActorContext: who is performing an operation.
// Operations that need authorization receive it explicitly.
type Actor struct {
	UserID int64
	Name   string
	Role   Role
}

// IsSupervisor reports whether the actor holds the supervisor role.
func (a Actor) IsSupervisor() bool {
	return a.Role == RoleSupervisor
}

// IsZero reports whether no actor was resolved.
func (a Actor) IsZero() bool {
	return a.UserID == 0
}

// ActorKey is the context key for the actor.
type ActorKey struct{}

// WithActor returns a context with the actor embedded, for log enrichment.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor from context, or the zero Actor if not set.
func ActorFromContext(ctx context.Context) Actor {
	if v, ok := ctx.Value(ActorKey{}).(Actor); ok {
		return v
	}
	return Actor{}
}
