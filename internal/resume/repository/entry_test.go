package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/repository"
	apperrors "github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/testutil"
)

func TestEntryStore_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewSkillStore(mockDB.Wrapped())

	mockDB.ExpectExec("INSERT INTO skills (id, tailoring_id, sort_index, created_at, updated_at, name, category, level) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)").
		WithArgs(testutil.AnyUUID{}, tailoringID, 2, testutil.AnyTime{}, testutil.AnyTime{}, "Go", "Languages", "expert").
		WillReturnResult(sqlmock.NewResult(0, 1))

	skill := &domain.Skill{Name: "Go", Category: "Languages", Level: "expert"}
	skill.TailoringID = tailoringID
	skill.SortIndex = 2

	err := store.Create(context.Background(), skill)

	require.NoError(t, err)
	assert.NotEmpty(t, skill.ID)
	assert.False(t, skill.CreatedAt.IsZero())
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_Create_MapsForeignKeyViolation(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewProjectStore(mockDB.Wrapped())

	mockDB.ExpectExec("INSERT INTO projects").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "projects_tailoring_id_fkey"})

	project := &domain.Project{Name: "Compiler"}
	project.TailoringID = tailoringID

	err := store.Create(context.Background(), project)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_List(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewExperienceStore(mockDB.Wrapped())
	now := time.Now().UTC()

	mockDB.ExpectQuery("SELECT id, tailoring_id, sort_index, created_at, updated_at, company, title, location, start_date, end_date, is_current, description FROM experiences WHERE tailoring_id = $1 ORDER BY sort_index, created_at").
		WithArgs(tailoringID).
		WillReturnRows(testutil.MockRows("id", "tailoring_id", "sort_index", "created_at", "updated_at",
			"company", "title", "location", "start_date", "end_date", "is_current", "description").
			AddRow("e1", tailoringID, 0, now, now, "Acme", "Engineer", "Berlin", "2020-01", "", true, "Built things"))

	entries, err := store.List(context.Background(), tailoringID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Company)
	assert.True(t, entries[0].IsCurrent)
	assert.Equal(t, "e1", entries[0].ID)
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_Get_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewCertificationStore(mockDB.Wrapped())

	mockDB.ExpectQuery("FROM certifications WHERE tailoring_id = $1 AND id = $2").
		WithArgs(tailoringID, "c1").
		WillReturnRows(testutil.MockRows("id"))

	_, err := store.Get(context.Background(), tailoringID, "c1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_Update(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewEducationStore(mockDB.Wrapped())

	mockDB.ExpectExec("UPDATE education SET sort_index = $1, institution = $2, degree = $3, field_of_study = $4, start_date = $5, end_date = $6, description = $7, updated_at = $8 WHERE id = $9 AND tailoring_id = $10").
		WithArgs(1, "MIT", "BSc", "CS", "2015", "2019", "", testutil.AnyTime{}, "ed1", tailoringID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	edu := &domain.Education{Institution: "MIT", Degree: "BSc", FieldOfStudy: "CS", StartDate: "2015", EndDate: "2019"}
	edu.ID = "ed1"
	edu.TailoringID = tailoringID
	edu.SortIndex = 1

	require.NoError(t, store.Update(context.Background(), edu))
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_Update_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewEducationStore(mockDB.Wrapped())

	mockDB.ExpectExec("UPDATE education").WillReturnResult(sqlmock.NewResult(0, 0))

	edu := &domain.Education{Institution: "MIT"}
	edu.ID = "missing"
	edu.TailoringID = tailoringID

	err := store.Update(context.Background(), edu)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockDB.ExpectationsWereMet(t)
}

func TestEntryStore_Delete(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	store := repository.NewSkillStore(mockDB.Wrapped())

	mockDB.ExpectExec("DELETE FROM skills WHERE id = $1 AND tailoring_id = $2").
		WithArgs("sk1", tailoringID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("DELETE FROM skills WHERE id = $1 AND tailoring_id = $2").
		WithArgs("sk1", tailoringID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), tailoringID, "sk1"))
	assert.ErrorIs(t, store.Delete(context.Background(), tailoringID, "sk1"), apperrors.ErrNotFound)
	mockDB.ExpectationsWereMet(t)
}
