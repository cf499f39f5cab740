package batch

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/docvault/core"
	"github.com/dmitrymomot/docvault/modules/auth"
)

// Router exposes batch endpoints. All routes assume the auth middleware has
// already bound the tenant and principal to the request context.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/", handleCreate(svc))
	r.Get("/", handleList(svc))
	r.Get("/{batchID}", handleGet(svc))
	r.Patch("/{batchID}/status", handleUpdateStatus(svc))

	return r
}

func handleCreate(svc *Service) http.HandlerFunc {
	type createRequest struct {
		Name string            `json:"name"`
		Type Type              `json:"type"`
		Tags map[string]string `json:"tags,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			core.Render(w, r, core.JSONError(core.ErrUnauthorized))
			return
		}

		b, err := svc.Create(r.Context(), req.Name, req.Type, req.Tags, p.Email)
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "batch_created", b, nil))
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			batches []Batch
			err     error
		)
		switch {
		case r.URL.Query().Get("status") != "":
			batches, err = svc.ListByStatus(r.Context(), Status(r.URL.Query().Get("status")))
		case r.URL.Query().Get("created_by") != "":
			batches, err = svc.ListByCreator(r.Context(), r.URL.Query().Get("created_by"))
		default:
			batches, err = svc.List(r.Context())
		}
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		core.Render(w, r, core.JSON("batches", batches, map[string]any{"count": len(batches)}))
	}
}

func handleGet(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), chi.URLParam(r, "batchID"))
		if err != nil {
			core.Render(w, r, core.JSONError(mapBatchError(err)))
			return
		}

		core.Render(w, r, core.JSON("batch", b, nil))
	}
}

func handleUpdateStatus(svc *Service) http.HandlerFunc {
	type statusRequest struct {
		Status Status `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			core.Render(w, r, core.JSONError(core.ErrUnauthorized))
			return
		}

		b, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "batchID"), req.Status, p.Email)
		if err != nil {
			core.Render(w, r, core.JSONError(mapBatchError(err)))
			return
		}

		core.Render(w, r, core.JSON("batch", b, nil))
	}
}

func mapBatchError(err error) error {
	if errors.Is(err, ErrBatchNotFound) {
		return core.ErrNotFound.WithMessage(ErrBatchNotFound.Error())
	}
	return err
}
