package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/service"
	apperrors "github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

const (
	// multipartOverhead leaves room for the form fields around the file
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// ResumeHandler handles tailoring endpoints
type ResumeHandler struct {
	svc      *service.ResumeService
	editor   *service.Editor
	render   *service.RenderService
	maxBytes int64
	logger   *logger.Logger
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(svc *service.ResumeService, editor *service.Editor, render *service.RenderService, maxBytes int64, log *logger.Logger) *ResumeHandler {
	return &ResumeHandler{
		svc:      svc,
		editor:   editor,
		render:   render,
		maxBytes: maxBytes,
		logger:   log,
	}
}

// RegisterRoutes mounts the tailoring endpoints on r
func (h *ResumeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Upload)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(requireUUID("id", "tailoring"))

		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/file", h.Download)
		r.Get("/preview", h.Preview)
		r.Get("/export", h.Export)
		r.With(requireUUID("sectionId", "section")).Put("/sections/{sectionId}", h.UpdateSection)

		mountEntries[domain.Experience, *domain.Experience, domain.ExperienceInput](r, domain.KindExperiences, h.editor.Experiences)
		mountEntries[domain.Education, *domain.Education, domain.EducationInput](r, domain.KindEducation, h.editor.Education)
		mountEntries[domain.Certification, *domain.Certification, domain.CertificationInput](r, domain.KindCertifications, h.editor.Certifications)
		mountEntries[domain.Project, *domain.Project, domain.ProjectInput](r, domain.KindProjects, h.editor.Projects)
		mountEntries[domain.Skill, *domain.Skill, domain.SkillInput](r, domain.KindSkills, h.editor.Skills)
	})
}

// List returns the caller's dashboard
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := httputil.Pagination(r)
	items, total, err := h.svc.List(r.Context(), httputil.GetUserID(r.Context()), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSONWithMeta(w, http.StatusOK, items, httputil.NewMeta(page, perPage, total))
}

// Upload accepts a multipart form with a "file" part and optional
// "title", "job_description" and "parser" fields.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, apperrors.TooLarge("upload exceeds the size limit"))
			return
		}
		httputil.Error(w, apperrors.BadRequest("expected a multipart form"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, apperrors.Validation(map[string]string{"file": "is required"}))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.Error(w, apperrors.BadRequest("could not read uploaded file"))
		return
	}

	req := &domain.UploadRequest{
		Title:          r.FormValue("title"),
		JobDescription: r.FormValue("job_description"),
		Parser:         r.FormValue("parser"),
		FileName:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Data:           data,
	}

	detail, err := h.svc.Process(r.Context(), httputil.GetUserID(r.Context()), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, detail)
}

func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Get(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, detail)
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// Download streams the originally uploaded file
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	tailoring, obj, err := h.svc.Download(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.File(w, obj.ContentType, "attachment", tailoring.FileName, obj.Data)
}

func (h *ResumeHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSectionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	section, err := h.svc.UpdateSection(r.Context(), httputil.GetUserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "sectionId"), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, section)
}

// Preview renders the resume for display in the browser
func (h *ResumeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.servePDF(w, r, "inline")
}

// Export renders the resume as a download
func (h *ResumeHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.servePDF(w, r, "attachment")
}

func (h *ResumeHandler) servePDF(w http.ResponseWriter, r *http.Request, disposition string) {
	ctx := r.Context()
	tailoring, out, err := h.render.Render(ctx, httputil.GetUserID(ctx), httputil.GetUserEmail(ctx), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.File(w, "application/pdf", disposition, exportName(tailoring), out)
}

func exportName(t *domain.Tailoring) string {
	base := strings.TrimSuffix(t.FileName, filepath.Ext(t.FileName))
	if base == "" {
		base = "resume"
	}
	return base + "-tailored.pdf"
}
