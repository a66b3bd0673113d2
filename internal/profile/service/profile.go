package service

import (
	"context"
	"errors"

	"github.com/resumekit/resumekit-backend/internal/profile/domain"
	"github.com/resumekit/resumekit-backend/internal/profile/repository"
	apperrors "github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// ProfileService manages the one profile each account owns
type ProfileService struct {
	repo   *repository.ProfileRepository
	logger *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo *repository.ProfileRepository, log *logger.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: log}
}

// Get returns the stored profile, or an empty one carrying the account email
// when the account has never saved a profile.
func (s *ProfileService) Get(ctx context.Context, accountID, email string) (*domain.Profile, error) {
	p, err := s.repo.Get(ctx, accountID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return &domain.Profile{AccountID: accountID, Email: email}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the set fields of req and saves the result
func (s *ProfileService) Update(ctx context.Context, accountID, email string, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	p, err := s.Get(ctx, accountID, email)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", accountID).Msg("profile updated")
	return p, nil
}
