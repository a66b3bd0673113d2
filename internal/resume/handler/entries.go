package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/repository"
	"github.com/resumekit/resumekit-backend/internal/resume/service"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
)

// mountEntries registers list, create, update and delete for one entry kind.
// I is the kind's input payload.
func mountEntries[T any, P repository.Record[T], I any, IP interface {
	*I
	service.Input[P]
}](r chi.Router, kind domain.EntryKind, svc *service.EntryService[T, P]) {
	decode := func(w http.ResponseWriter, r *http.Request) (IP, bool) {
		var none IP
		in := IP(new(I))
		if err := httputil.DecodeJSON(r, in); err != nil {
			httputil.Error(w, err)
			return none, false
		}
		if err := httputil.Validate(in); err != nil {
			httputil.Error(w, err)
			return none, false
		}
		return in, true
	}

	r.Route("/"+string(kind), func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			entries, err := svc.List(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, entries)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			in, ok := decode(w, r)
			if !ok {
				return
			}
			entry, err := svc.Create(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"), in)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.Created(w, entry)
		})

		withEntry := r.With(requireUUID("entryId", "entry"))

		withEntry.Put("/{entryId}", func(w http.ResponseWriter, r *http.Request) {
			in, ok := decode(w, r)
			if !ok {
				return
			}
			entry, err := svc.Update(r.Context(), httputil.GetUserID(r.Context()),
				chi.URLParam(r, "id"), chi.URLParam(r, "entryId"), in)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, entry)
		})

		withEntry.Delete("/{entryId}", func(w http.ResponseWriter, r *http.Request) {
			err := svc.Delete(r.Context(), httputil.GetUserID(r.Context()),
				chi.URLParam(r, "id"), chi.URLParam(r, "entryId"))
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.NoContent(w)
		})
	})
}
