// Package tenants exposes the tenant administration HTTP surface over the
// tenant service. Mount it behind the auth middleware with an admin role
// gate; tenant creation is a control-plane operation.
package tenants

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/docvault/core"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// Router exposes tenant admin endpoints.
func Router(svc *tenant.Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/", handleCreate(svc))
	r.Get("/{name}", handleGet(svc))
	r.Delete("/{name}", handleDelete(svc))

	return r
}

func handleCreate(svc *tenant.Service) http.HandlerFunc {
	type createRequest struct {
		Name    string   `json:"name"`
		Type    string   `json:"type"`
		Domains []string `json:"domains"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}
		if req.Name == "" {
			core.Render(w, r, core.JSONError(core.ErrBadRequest.WithMessage("missing tenant name")))
			return
		}

		t, err := svc.CreateTenant(r.Context(), req.Name, req.Type, req.Domains)
		if err != nil {
			core.Render(w, r, core.JSONError(mapTenantError(err)))
			return
		}

		core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "tenant_created", t, nil))
	}
}

func handleGet(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTenantByName(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}
		if t == nil {
			core.Render(w, r, core.JSONError(mapTenantError(tenant.ErrTenantNotFound)))
			return
		}

		core.Render(w, r, core.JSON("tenant", t, nil))
	}
}

func handleDelete(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.DeleteTenant(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}
		if !deleted {
			core.Render(w, r, core.JSONError(mapTenantError(tenant.ErrTenantNotFound)))
			return
		}

		core.Render(w, r, core.JSONWithStatus(http.StatusOK, "tenant_deleted", nil, nil))
	}
}

func mapTenantError(err error) error {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		return core.ErrNotFound.WithMessage(tenant.ErrTenantNotFound.Error())
	case errors.Is(err, tenant.ErrTenantAlreadyExists):
		return core.ErrConflict.WithMessage(err.Error())
	case errors.Is(err, tenant.ErrDomainAlreadyExists):
		return core.ErrConflict.WithMessage(err.Error())
	default:
		return err
	}
}
