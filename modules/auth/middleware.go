package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/docvault/core"
	"github.com/dmitrymomot/docvault/modules/user"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// Middleware authenticates requests with a bearer access token and binds the
// tenant and principal to the request context. The resolution order matters:
// the tenant must be in the context before the user lookup, because the user
// store routes to the tenant's database from the context. The resolved
// user's tenant must match the token's claim; a token pointing at a user ID
// that happens to exist in a different tenant is rejected.
//
// The binding lives on the request context only, so it ends with the request
// on every exit path.
func Middleware(tokens *TokenService, registry tenant.Registry, users user.Repository, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r)
				return
			}

			claims, err := tokens.Verify(token, KindAccess)
			if err != nil {
				unauthorized(w, r)
				return
			}

			ctx := r.Context()

			t, err := registry.FindByName(ctx, claims.TenantName)
			if err != nil {
				log.ErrorContext(ctx, "tenant lookup failed", slog.Any("error", err))
				core.Render(w, r, core.JSONError(core.ErrInternalServerError))
				return
			}
			if t == nil || t.Deleted {
				unauthorized(w, r)
				return
			}

			ctx = tenant.WithTenant(ctx, t)

			u, err := users.FindByID(ctx, claims.Subject)
			if err != nil {
				log.ErrorContext(ctx, "user lookup failed", slog.Any("error", err))
				core.Render(w, r, core.JSONError(core.ErrInternalServerError))
				return
			}
			if u == nil || u.TenantName != claims.TenantName || u.Status != user.StatusActive {
				unauthorized(w, r)
				return
			}

			ctx = WithPrincipal(ctx, Principal{
				UserID:     u.ID,
				Email:      u.Email,
				TenantID:   t.ID,
				TenantName: t.Name,
				Roles:      u.Roles,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the principal carrying the given role.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w, r)
				return
			}
			if !p.HasRole(role) && !p.HasRole(user.RoleSuperAdmin) {
				core.Render(w, r, core.JSONError(core.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	core.Render(w, r, core.JSONError(core.ErrUnauthorized))
}
