package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired admits requests whose verified token is an unrevoked access
// token. It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := checkAccessToken(r, jwtService); err != nil {
				response.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkAccessToken(r *http.Request, jwtService jwt.Service) error {
	token, claims, err := jwtauth.FromContext(r.Context())
	switch {
	case err != nil, token == nil:
		return auth.ErrInvalidToken
	case claims["type"] != jwt.TokenTypeAccess:
		return auth.ErrInvalidToken
	}
	if raw := jwtauth.TokenFromHeader(r); raw != "" && jwtService.IsTokenRevoked(raw) {
		return auth.ErrInvalidToken
	}
	return nil
}
