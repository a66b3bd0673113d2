package service

import (
	"context"

	profiledomain "github.com/resumekit/resumekit-backend/internal/profile/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/render"
	"github.com/resumekit/resumekit-backend/internal/resume/repository"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// ProfileSource supplies the contact header; *profile/service.ProfileService implements it
type ProfileSource interface {
	Get(ctx context.Context, accountID, email string) (*profiledomain.Profile, error)
}

// RenderService assembles a tailoring, its entries and the owner's profile into a PDF
type RenderService struct {
	repo     *repository.TailoringRepository
	entries  *repository.Entries
	profiles ProfileSource
	logger   *logger.Logger
}

// NewRenderService creates a new render service
func NewRenderService(repo *repository.TailoringRepository, entries *repository.Entries, profiles ProfileSource, log *logger.Logger) *RenderService {
	return &RenderService{
		repo:     repo,
		entries:  entries,
		profiles: profiles,
		logger:   log.WithComponent("render-service"),
	}
}

// Render returns the tailoring and its rendered PDF
func (s *RenderService) Render(ctx context.Context, accountID, email, id string) (*domain.Tailoring, []byte, error) {
	doc, tailoring, err := s.document(ctx, accountID, email, id)
	if err != nil {
		return nil, nil, err
	}

	out, err := render.PDF(doc)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug().Str("tailoring_id", id).Int("bytes", len(out)).Msg("resume rendered")
	return tailoring, out, nil
}

func (s *RenderService) document(ctx context.Context, accountID, email, id string) (*render.Document, *domain.Tailoring, error) {
	tailoring, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.profiles.Get(ctx, accountID, email)
	if err != nil {
		return nil, nil, err
	}

	doc := &render.Document{
		Title: tailoring.Title,
		Header: render.Header{
			Name:     profile.FullName,
			Headline: profile.Headline,
			Email:    profile.Email,
			Phone:    profile.Phone,
			Location: profile.Location,
			Website:  profile.Website,
			LinkedIn: profile.LinkedIn,
			Summary:  profile.Summary,
		},
	}

	if doc.Sections, err = s.repo.ListSections(ctx, id); err != nil {
		return nil, nil, err
	}
	if doc.Experiences, err = s.entries.Experiences.List(ctx, id); err != nil {
		return nil, nil, err
	}
	if doc.Education, err = s.entries.Education.List(ctx, id); err != nil {
		return nil, nil, err
	}
	if doc.Skills, err = s.entries.Skills.List(ctx, id); err != nil {
		return nil, nil, err
	}
	if doc.Projects, err = s.entries.Projects.List(ctx, id); err != nil {
		return nil, nil, err
	}
	if doc.Certifications, err = s.entries.Certifications.List(ctx, id); err != nil {
		return nil, nil, err
	}

	return doc, tailoring, nil
}
