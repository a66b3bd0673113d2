package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
)

// requireUUID answers 404 when the named URL parameter is not a UUID.
// Must be mounted where chi has already matched the parameter.
func requireUUID(param, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := uuid.Parse(chi.URLParam(r, param)); err != nil {
				httputil.Error(w, apperrors.NotFound(resource))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
