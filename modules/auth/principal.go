package auth

import (
	"context"

	"github.com/dmitrymomot/docvault/modules/user"
)

// Principal is the authenticated identity bound to a request after the
// middleware has verified the token and resolved the user.
type Principal struct {
	UserID     string
	Email      string
	TenantID   string
	TenantName string
	Roles      []user.Role
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role user.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal binds the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorFromContext returns the principal's email for audit attribution. It
// satisfies the actor resolver hook of the tenant service.
func ActorFromContext(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return "", false
	}
	return p.Email, true
}
