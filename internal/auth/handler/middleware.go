package handler

import (
	"net/http"
	"strings"

	"github.com/resumekit/resumekit-backend/internal/auth/jwt"
	"github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// Authenticate validates the bearer access token and puts the account into the request context
func Authenticate(manager *jwt.Manager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				httputil.Error(w, errors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				log.Debug().Err(err).Msg("token validation failed")
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.Subject, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
