package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// TailoringRepository handles tailorings and their parsed sections
type TailoringRepository struct {
	db *database.DB
}

// NewTailoringRepository creates a new tailoring repository
func NewTailoringRepository(db *database.DB) *TailoringRepository {
	return &TailoringRepository{db: db}
}

// Create stores the tailoring and its sections in one transaction.
// Sections get their slice index as position.
func (r *TailoringRepository) Create(ctx context.Context, t *domain.Tailoring, sections []domain.Section) ([]*domain.ResumeSection, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	stored := make([]*domain.ResumeSection, 0, len(sections))

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO tailorings (id, account_id, title, job_description, file_name, object_key, content_type, parser, raw_text, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.ExecContext(ctx, query,
			t.ID, t.AccountID, t.Title, t.JobDescription, t.FileName, t.ObjectKey,
			t.ContentType, t.Parser, t.RawText, t.CreatedAt, t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert tailoring: %w", err)
		}

		for i, s := range sections {
			section := &domain.ResumeSection{
				ID:          uuid.New().String(),
				TailoringID: t.ID,
				Type:        s.Type,
				Content:     s.Content,
				SortIndex:   s.SortIndex,
				Position:    i,
				UpdatedAt:   now,
			}
			if err := insertSection(ctx, tx, section); err != nil {
				return err
			}
			stored = append(stored, section)
		}
		return nil
	})
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	return stored, nil
}

func insertSection(ctx context.Context, tx *sqlx.Tx, s *domain.ResumeSection) error {
	query := `
		INSERT INTO resume_sections (id, tailoring_id, section_type, content, sort_index, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, query,
		s.ID, s.TailoringID, s.Type, s.Content, s.SortIndex, s.Position, s.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert section %d: %w", s.Position, err)
	}
	return nil
}

// ListByAccount returns one page of the account's tailorings, newest first, and the total count
func (r *TailoringRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TailoringSummary, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tailorings WHERE account_id = $1`, accountID); err != nil {
		return nil, 0, err
	}

	summaries := []*domain.TailoringSummary{}
	query := `
		SELECT t.id, t.title, t.file_name, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM resume_sections s WHERE s.tailoring_id = t.id) AS section_count
		FROM tailorings t
		WHERE t.account_id = $1
		ORDER BY t.created_at DESC, t.id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &summaries, query, accountID, limit, offset); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// GetByID returns the tailoring when it belongs to accountID
func (r *TailoringRepository) GetByID(ctx context.Context, accountID, id string) (*domain.Tailoring, error) {
	var t domain.Tailoring
	query := `
		SELECT id, account_id, title, job_description, file_name, object_key, content_type, parser, raw_text, created_at, updated_at
		FROM tailorings
		WHERE id = $1 AND account_id = $2
	`
	err := r.db.GetContext(ctx, &t, query, id, accountID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("tailoring")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListSections returns the parsed sections of a tailoring in position order
func (r *TailoringRepository) ListSections(ctx context.Context, tailoringID string) ([]*domain.ResumeSection, error) {
	sections := []*domain.ResumeSection{}
	query := `
		SELECT id, tailoring_id, section_type, content, sort_index, position, updated_at
		FROM resume_sections
		WHERE tailoring_id = $1
		ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &sections, query, tailoringID); err != nil {
		return nil, err
	}
	return sections, nil
}

// UpdateSection replaces the content of one section of a tailoring
func (r *TailoringRepository) UpdateSection(ctx context.Context, tailoringID, sectionID, content string) (*domain.ResumeSection, error) {
	var s domain.ResumeSection
	query := `
		UPDATE resume_sections SET content = $1, updated_at = NOW()
		WHERE id = $2 AND tailoring_id = $3
		RETURNING id, tailoring_id, section_type, content, sort_index, position, updated_at
	`
	err := r.db.GetContext(ctx, &s, query, content, sectionID, tailoringID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("section")
	}
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE tailorings SET updated_at = NOW() WHERE id = $1`, tailoringID); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the tailoring; sections and entries cascade
func (r *TailoringRepository) Delete(ctx context.Context, accountID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tailorings WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("tailoring")
	}
	return nil
}
