package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/docvault/core"
)

// Router exposes the unauthenticated auth endpoints.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", handleRegister(svc))
	r.Post("/login", handleLogin(svc))
	r.Post("/refresh", handleRefresh(svc))
	r.Get("/verify", handleVerify(svc))
	r.Post("/resend-verification", handleResend(svc))

	return r
}

// MeRouter exposes the authenticated user's own endpoints. Mount it behind
// the auth middleware.
func MeRouter(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/", handleCurrentUser(svc))
	r.Put("/password", handleChangePassword(svc))

	return r
}

// UsersRouter exposes admin user management. Mount it behind the auth
// middleware with an admin role gate.
func UsersRouter(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/{userID}/deactivate", handleDeactivate(svc))

	return r
}

func handleRegister(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		u, err := svc.Register(r.Context(), req)
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "registered", u, nil))
	}
}

func handleLogin(svc *Service) http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		pair, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("authenticated", pair, nil))
	}
}

func handleRefresh(svc *Service) http.HandlerFunc {
	type refreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		pair, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("refreshed", pair, nil))
	}
}

func handleVerify(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			core.Render(w, r, core.JSONError(core.ErrBadRequest.WithMessage("missing token")))
			return
		}

		u, err := svc.VerifyEmail(r.Context(), token)
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("verified", u, nil))
	}
}

func handleResend(svc *Service) http.HandlerFunc {
	type resendRequest struct {
		Email string `json:"email"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req resendRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		if err := svc.ResendVerification(r.Context(), req.Email); err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		// Always generic, whether or not the email is known.
		core.Render(w, r, core.JSON("verification_sent", nil, nil))
	}
}

func handleCurrentUser(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.CurrentUser(r.Context())
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("me", u, nil))
	}
}

func handleChangePassword(svc *Service) http.HandlerFunc {
	type changePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Render(w, r, core.JSONError(err))
			return
		}

		if err := svc.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("password_changed", nil, nil))
	}
}

func handleDeactivate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.DeactivateUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			core.Render(w, r, core.JSONError(mapAuthError(err)))
			return
		}

		core.Render(w, r, core.JSON("user_deactivated", u, nil))
	}
}

// mapAuthError converts service errors to HTTP errors without widening what
// they reveal.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return core.ErrUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return core.ErrNotFound.WithMessage(ErrUserNotFound.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return core.ErrUnauthorized.WithMessage(ErrInvalidCredentials.Error())
	case errors.Is(err, ErrAccountLocked):
		return core.ErrUnauthorized.WithMessage(ErrAccountLocked.Error())
	case errors.Is(err, ErrUserAlreadyExists):
		return core.ErrConflict.WithMessage(ErrUserAlreadyExists.Error())
	case errors.Is(err, ErrUnknownEmailDomain):
		return core.ErrUnprocessableEntity.WithMessage(ErrUnknownEmailDomain.Error())
	case errors.Is(err, ErrInvalidVerificationToken):
		return core.ErrUnprocessableEntity.WithMessage(ErrInvalidVerificationToken.Error())
	case errors.Is(err, ErrPasswordTooWeak):
		return core.ErrUnprocessableEntity.WithMessage(ErrPasswordTooWeak.Error())
	default:
		return err
	}
}
