package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/middleware"
	"github.com/authgate/authgate-go/internal/validation"
)

// NewRouter mounts every route. Errors from handlers and middleware all go
// through errs.
func NewRouter(auth *AuthHandler, tokens *crypto.TokenManager, errs *ErrorHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover(errs))

	r.NotFound(errs.NotFound)
	r.MethodNotAllowed(errs.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Validate(validation.SignupSchema, errs)).
			Post("/signup", errs.Wrap(auth.HandleSignup))
		r.With(middleware.Validate(validation.LoginSchema, errs)).
			Post("/login", errs.Wrap(auth.HandleLogin))
		r.With(middleware.Validate(validation.PasswordResetSchema, errs)).
			Post("/password-reset", errs.Wrap(auth.HandlePasswordReset))

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens, errs))
			r.Get("/me", errs.Wrap(auth.HandleMe))
			r.With(middleware.Validate(validation.ProfileUpdateSchema, errs)).
				Patch("/me", errs.Wrap(auth.HandleUpdateMe))
		})
	})

	return r
}
