package record

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/docvault/core"
	"github.com/dmitrymomot/docvault/modules/auth"
)

// Router exposes record endpoints, mounted behind the auth middleware.
// Uploads are two-step: request a grant, upload directly against the signed
// URL, then confirm completion.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/", handleRequestUpload(svc))
	r.Get("/", handleListByBatch(svc))
	r.Get("/{recordID}", handleGet(svc))
	r.Post("/{recordID}/complete", handleCompleteUpload(svc))
	r.Get("/{recordID}/download", handleDownloadURL(svc))
	r.Delete("/", handleDeleteByBatch(svc))

	return r
}

func handleRequestUpload(svc *Service) http.HandlerFunc {
	type uploadRequest struct {
		BatchID  string `json:"batch_id"`
		FileName string `json:"file_name"`
		Type     Type   `json:"type"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			core.Render(w, r, core.JSONError(core.ErrUnauthorized))
			return
		}

		grant, err := svc.RequestUpload(r.Context(), UploadRequest{
			BatchID:     req.BatchID,
			FileName:    req.FileName,
			Type:        req.Type,
			RequestedBy: p.Email,
		})
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "upload_granted", grant, nil))
	}
}

func handleListByBatch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchID := r.URL.Query().Get("batch_id")
		if batchID == "" {
			core.Render(w, r, core.JSONError(core.ErrBadRequest.WithMessage("missing batch_id")))
			return
		}

		var status *Status
		if s := r.URL.Query().Get("status"); s != "" {
			st := Status(s)
			status = &st
		}

		records, err := svc.ListByBatch(r.Context(), batchID, status)
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		core.Render(w, r, core.JSON("records", records, map[string]any{"count": len(records)}))
	}
}

func handleGet(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			core.Render(w, r, core.JSONError(mapRecordError(err)))
			return
		}

		core.Render(w, r, core.JSON("record", rec, nil))
	}
}

func handleCompleteUpload(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			core.Render(w, r, core.JSONError(core.ErrUnauthorized))
			return
		}

		rec, err := svc.CompleteUpload(r.Context(), chi.URLParam(r, "recordID"), p.Email)
		if err != nil {
			core.Render(w, r, core.JSONError(mapRecordError(err)))
			return
		}

		core.Render(w, r, core.JSON("record", rec, nil))
	}
}

func handleDownloadURL(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := svc.DownloadURL(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			core.Render(w, r, core.JSONError(mapRecordError(err)))
			return
		}

		core.Render(w, r, core.JSON("download", map[string]string{"download_url": url}, nil))
	}
}

func handleDeleteByBatch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchID := r.URL.Query().Get("batch_id")
		if batchID == "" {
			core.Render(w, r, core.JSONError(core.ErrBadRequest.WithMessage("missing batch_id")))
			return
		}

		deleted, err := svc.DeleteByBatch(r.Context(), batchID)
		if err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		core.Render(w, r, core.JSON("records_deleted", map[string]int64{"deleted": deleted}, nil))
	}
}

func mapRecordError(err error) error {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return core.ErrNotFound.WithMessage(ErrRecordNotFound.Error())
	case errors.Is(err, ErrUploadIncomplete):
		return core.ErrUnprocessableEntity.WithMessage(ErrUploadIncomplete.Error())
	default:
		return err
	}
}
