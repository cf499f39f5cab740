package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant returns a child context with tenant bound as the active tenant.
// The binding is scoped to the returned context: callers that pass the parent
// context further down keep their previous binding untouched, which gives
// nested scoping and guaranteed restoration on every exit path, including
// panics and cancellation.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the active tenant from the context.
// Returns nil, false if no tenant is bound.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	return tenant, ok
}

// NameFromContext retrieves just the active tenant's name.
// Returns "" and false if no tenant is bound.
func NameFromContext(ctx context.Context) (string, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return "", false
	}
	return tenant.Name, true
}

// MustFromContext retrieves the active tenant from the context.
// Panics if no tenant is bound. Use this only in code paths that are
// unreachable without an authenticated tenant.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		panic("tenant: no tenant in context")
	}
	return tenant
}

// LoggerExtractor returns a logger context extractor that annotates every log
// record with the active tenant name.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if name, ok := NameFromContext(ctx); ok {
			return slog.String("tenant", name), true
		}
		return slog.Attr{}, false
	}
}
