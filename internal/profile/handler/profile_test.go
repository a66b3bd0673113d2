package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/profile/domain"
	"github.com/resumekit/resumekit-backend/internal/profile/handler"
	"github.com/resumekit/resumekit-backend/internal/profile/repository"
	"github.com/resumekit/resumekit-backend/internal/profile/service"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/testutil"
)

const (
	accountID = "5b0c7c8e-9d43-4c4e-a0a4-1f9a2f6e0b11"
	email     = "jane@example.com"
)

var profileColumns = []string{"account_id", "full_name", "email", "phone", "location", "headline", "website", "linkedin", "summary", "updated_at"}

type envelope struct {
	Success bool           `json:"success"`
	Data    domain.Profile `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newRouter(mockDB *testutil.MockDB) http.Handler {
	svc := service.NewProfileService(repository.NewProfileRepository(mockDB.Wrapped()), logger.Nop())
	r := chi.NewRouter()
	r.Route("/profile", handler.NewProfileHandler(svc, logger.Nop()).RegisterRoutes)
	return r
}

func TestProfileHandler_Get_EmptyProfileHasEmail(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	mockDB.ExpectQuery("FROM profiles").
		WithArgs(accountID).
		WillReturnRows(testutil.MockRows(profileColumns...))

	req := testutil.WithUser(testutil.NewHTTPRequest(http.MethodGet, "/profile/", nil), accountID, email)
	rr := testutil.ExecuteRequest(newRouter(mockDB), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body envelope
	testutil.ParseJSONBody(t, rr, &body)
	assert.Equal(t, accountID, body.Data.AccountID)
	assert.Equal(t, email, body.Data.Email)
	assert.Empty(t, body.Data.FullName)
	mockDB.ExpectationsWereMet(t)
}

func TestProfileHandler_Update_PartialUpsert(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	now := time.Now().UTC()

	mockDB.ExpectQuery("FROM profiles").
		WithArgs(accountID).
		WillReturnRows(testutil.MockRows(profileColumns...).
			AddRow(accountID, "Jane", email, "+49 1", "Berlin", "", "", "", "Old summary", now))
	mockDB.ExpectQuery("INSERT INTO profiles").
		WithArgs(accountID, "Jane Doe", email, "+49 1", "Berlin", "Staff Engineer", "", "", "Old summary").
		WillReturnRows(testutil.MockRows("updated_at").AddRow(now))

	req := testutil.WithUser(testutil.NewHTTPRequest(http.MethodPut, "/profile/", map[string]string{
		"full_name": "Jane Doe",
		"headline":  "Staff Engineer",
	}), accountID, email)
	rr := testutil.ExecuteRequest(newRouter(mockDB), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body envelope
	testutil.ParseJSONBody(t, rr, &body)
	assert.Equal(t, "Jane Doe", body.Data.FullName)
	assert.Equal(t, "Berlin", body.Data.Location)
	assert.Equal(t, "Old summary", body.Data.Summary)
	mockDB.ExpectationsWereMet(t)
}

func TestProfileHandler_Update_Validation(t *testing.T) {
	mockDB := testutil.NewMockDB(t)

	req := testutil.WithUser(testutil.NewHTTPRequest(http.MethodPut, "/profile/", map[string]string{
		"website": "not a url",
	}), accountID, email)
	rr := testutil.ExecuteRequest(newRouter(mockDB), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	var body envelope
	testutil.ParseJSONBody(t, rr, &body)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "website")
	mockDB.ExpectationsWereMet(t)
}

func TestUpdateProfileRequest_Apply(t *testing.T) {
	p := &domain.Profile{FullName: "Jane", Phone: "1"}
	empty := ""
	name := "Jane Doe"

	(&domain.UpdateProfileRequest{FullName: &name, Phone: &empty}).Apply(p)

	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Empty(t, p.Phone, "explicit empty string clears the field")
}
