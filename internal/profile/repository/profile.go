package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/resumekit/resumekit-backend/internal/profile/domain"
	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the account's profile
func (r *ProfileRepository) Get(ctx context.Context, accountID string) (*domain.Profile, error) {
	var p domain.Profile
	query := `
		SELECT account_id, full_name, email, phone, location, headline, website, linkedin, summary, updated_at
		FROM profiles
		WHERE account_id = $1
	`
	err := r.db.GetContext(ctx, &p, query, accountID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("profile")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes the whole profile, creating it on first save
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (account_id, full_name, email, phone, location, headline, website, linkedin, summary, updated_at)
		VALUES (:account_id, :full_name, :email, :phone, :location, :headline, :website, :linkedin, :summary, NOW())
		ON CONFLICT (account_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			headline = EXCLUDED.headline,
			website = EXCLUDED.website,
			linkedin = EXCLUDED.linkedin,
			summary = EXCLUDED.summary,
			updated_at = NOW()
		RETURNING updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&p.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}
