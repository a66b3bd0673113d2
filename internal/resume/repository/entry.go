package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// Record is a pointer to an entry struct embedding domain.EntryBase
type Record[T any] interface {
	*T
	Base() *domain.EntryBase
}

var baseColumns = []string{"id", "tailoring_id", "sort_index", "created_at", "updated_at"}

// EntryStore persists one kind of structured entry. Queries are built once
// from the table name and its kind-specific columns.
type EntryStore[T any, P Record[T]] struct {
	db       *database.DB
	resource string

	selectQuery string
	insertQuery string
	updateQuery string
	deleteQuery string
}

func newEntryStore[T any, P Record[T]](db *database.DB, table, resource string, columns []string) *EntryStore[T, P] {
	all := append(append([]string{}, baseColumns...), columns...)

	named := make([]string, len(all))
	for i, c := range all {
		named[i] = ":" + c
	}

	sets := make([]string, 0, len(columns)+2)
	for _, c := range append([]string{"sort_index"}, columns...) {
		sets = append(sets, c+" = :"+c)
	}
	sets = append(sets, "updated_at = :updated_at")

	return &EntryStore[T, P]{
		db:       db,
		resource: resource,
		selectQuery: fmt.Sprintf("SELECT %s FROM %s WHERE tailoring_id = $1",
			strings.Join(all, ", "), table),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(all, ", "), strings.Join(named, ", ")),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND tailoring_id = :tailoring_id",
			table, strings.Join(sets, ", ")),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND tailoring_id = $2", table),
	}
}

func NewExperienceStore(db *database.DB) *EntryStore[domain.Experience, *domain.Experience] {
	return newEntryStore[domain.Experience](db, "experiences", "experience",
		[]string{"company", "title", "location", "start_date", "end_date", "is_current", "description"})
}

func NewEducationStore(db *database.DB) *EntryStore[domain.Education, *domain.Education] {
	return newEntryStore[domain.Education](db, "education", "education",
		[]string{"institution", "degree", "field_of_study", "start_date", "end_date", "description"})
}

func NewCertificationStore(db *database.DB) *EntryStore[domain.Certification, *domain.Certification] {
	return newEntryStore[domain.Certification](db, "certifications", "certification",
		[]string{"name", "issuer", "issue_date", "expiry_date", "credential_url"})
}

func NewProjectStore(db *database.DB) *EntryStore[domain.Project, *domain.Project] {
	return newEntryStore[domain.Project](db, "projects", "project",
		[]string{"name", "role", "url", "start_date", "end_date", "description"})
}

func NewSkillStore(db *database.DB) *EntryStore[domain.Skill, *domain.Skill] {
	return newEntryStore[domain.Skill](db, "skills", "skill",
		[]string{"name", "category", "level"})
}

// List returns the tailoring's entries ordered by sort index
func (s *EntryStore[T, P]) List(ctx context.Context, tailoringID string) ([]*T, error) {
	entries := []*T{}
	query := s.selectQuery + " ORDER BY sort_index, created_at"
	if err := s.db.SelectContext(ctx, &entries, query, tailoringID); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns one entry of the tailoring
func (s *EntryStore[T, P]) Get(ctx context.Context, tailoringID, id string) (*T, error) {
	var entry T
	err := s.db.GetContext(ctx, &entry, s.selectQuery+" AND id = $2", tailoringID, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(s.resource)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts the entry, assigning its id and timestamps
func (s *EntryStore[T, P]) Create(ctx context.Context, entry P) error {
	base := entry.Base()
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	base.CreatedAt = now
	base.UpdatedAt = now

	if _, err := s.db.NamedExecContext(ctx, s.insertQuery, entry); err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// Update writes every column of the entry back
func (s *EntryStore[T, P]) Update(ctx context.Context, entry P) error {
	entry.Base().UpdatedAt = time.Now().UTC()

	result, err := s.db.NamedExecContext(ctx, s.updateQuery, entry)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return s.expectOne(result)
}

// Delete removes one entry of the tailoring
func (s *EntryStore[T, P]) Delete(ctx context.Context, tailoringID, id string) error {
	result, err := s.db.ExecContext(ctx, s.deleteQuery, id, tailoringID)
	if err != nil {
		return err
	}
	return s.expectOne(result)
}

func (s *EntryStore[T, P]) expectOne(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound(s.resource)
	}
	return nil
}

// Entries bundles the stores of every entry kind
type Entries struct {
	Experiences    *EntryStore[domain.Experience, *domain.Experience]
	Education      *EntryStore[domain.Education, *domain.Education]
	Certifications *EntryStore[domain.Certification, *domain.Certification]
	Projects       *EntryStore[domain.Project, *domain.Project]
	Skills         *EntryStore[domain.Skill, *domain.Skill]
}

// NewEntries creates the entry stores for db
func NewEntries(db *database.DB) *Entries {
	return &Entries{
		Experiences:    NewExperienceStore(db),
		Education:      NewEducationStore(db),
		Certifications: NewCertificationStore(db),
		Projects:       NewProjectStore(db),
		Skills:         NewSkillStore(db),
	}
}
