package httputil_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestError(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		rr := httptest.NewRecorder()
		httputil.Error(rr, fmt.Errorf("wrapped: %w", errors.NotFound("tailoring")))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decode(t, rr)
		assert.False(t, resp.Success)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
		assert.Equal(t, "tailoring not found", resp.Error.Message)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		httputil.Error(rr, fmt.Errorf("connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decode(t, rr)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})
}

func TestJSONWithMeta(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.JSONWithMeta(rr, http.StatusOK, []string{"a"}, httputil.NewMeta(2, 20, 41))

	resp := decode(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(41), resp.Meta.Total)
}

func TestFile(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.File(rr, "application/pdf", "inline", "resume.pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="resume.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", rr.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3", rr.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"}`))
	require.NoError(t, httputil.DecodeJSON(req, &dst))
	assert.Equal(t, "Ada", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := httputil.DecodeJSON(req, &dst)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 20},
		{"?page=3&per_page=50", 3, 50},
		{"?page=-1&per_page=500", 1, 20},
		{"?page=abc", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, perPage := httputil.Pagination(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestValidate(t *testing.T) {
	type signup struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Website  string `json:"website" validate:"omitempty,url"`
	}

	require.NoError(t, httputil.Validate(signup{Email: "a@b.co", Password: "12345678"}))

	err := httputil.Validate(signup{Email: "nope", Password: "short", Website: "::"})
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "must be a valid email address", appErr.Details["email"])
	assert.Equal(t, "must be at least 8 characters", appErr.Details["password"])
	assert.Equal(t, "must be a valid URL", appErr.Details["website"])
}

func TestRequestIDAndRecoverer(t *testing.T) {
	log := logger.New("test", "test")

	var seen string
	handler := httputil.RequestID(httputil.Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r.Context())
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWithUserContext(t *testing.T) {
	ctx := httputil.WithUserContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "acc-1", "a@b.co")

	assert.Equal(t, "acc-1", httputil.GetUserID(ctx))
	assert.Equal(t, "a@b.co", httputil.GetUserEmail(ctx))
}
