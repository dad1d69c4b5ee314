package middleware

import (
	"context"
	"net/http"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/crypto"
)

type contextKey string

const payloadKey contextKey = "tokenPayload"

// ErrorResponder writes the response for a failed request.
type ErrorResponder interface {
	ServeError(w http.ResponseWriter, r *http.Request, err error)
}

// JWTAuth returns middleware that validates a Bearer token from the Authorization header.
func JWTAuth(tokens *crypto.TokenManager, errs ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := crypto.ExtractTokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				errs.ServeError(w, r, apperror.Unauthorized(err.Error()))
				return
			}

			payload, err := tokens.VerifyToken(token)
			if err != nil {
				errs.ServeError(w, r, apperror.Unauthorized(err.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), payloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PayloadFromContext extracts the authenticated token payload from the request context.
func PayloadFromContext(ctx context.Context) (*crypto.TokenPayload, bool) {
	p, ok := ctx.Value(payloadKey).(*crypto.TokenPayload)
	return p, ok && p != nil
}

// WithPayload returns a copy of ctx carrying p, as JWTAuth would store it.
func WithPayload(ctx context.Context, p *crypto.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey, p)
}
