package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/events"
	"github.com/resumekit/resumekit-backend/internal/resume/extract"
	"github.com/resumekit/resumekit-backend/internal/resume/parser"
	"github.com/resumekit/resumekit-backend/internal/resume/repository"
	"github.com/resumekit/resumekit-backend/pkg/config"
	apperrors "github.com/resumekit/resumekit-backend/pkg/errors"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/objectstore"
)

// ResumeService turns uploads into tailorings and serves them back
type ResumeService struct {
	repo      *repository.TailoringRepository
	store     objectstore.Store
	parsers   *parser.Registry
	publisher *events.ResumeEventPublisher
	config    *config.Config
	logger    *logger.Logger
}

// NewResumeService creates a new resume service. publisher may be nil when messaging is disabled.
func NewResumeService(
	repo *repository.TailoringRepository,
	store objectstore.Store,
	parsers *parser.Registry,
	publisher *events.ResumeEventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) *ResumeService {
	return &ResumeService{
		repo:      repo,
		store:     store,
		parsers:   parsers,
		publisher: publisher,
		config:    cfg,
		logger:    log.WithComponent("resume-service"),
	}
}

// Process extracts, parses, stores and persists one upload.
// Nothing is uploaded or written when the file or parser is rejected; when
// persistence fails the uploaded object is removed again.
func (s *ResumeService) Process(ctx context.Context, accountID string, req *domain.UploadRequest) (*domain.TailoringDetail, error) {
	if len(req.Data) == 0 {
		return nil, apperrors.BadRequest("uploaded file is empty")
	}
	if limit := s.config.Upload.MaxBytes; limit > 0 && int64(len(req.Data)) > limit {
		return nil, apperrors.TooLarge(fmt.Sprintf("file exceeds the %d byte upload limit", limit))
	}

	format, err := extract.DetectFormat(req.FileName, req.ContentType)
	if err != nil {
		return nil, apperrors.Wrap(err, "UNSUPPORTED_MEDIA_TYPE", "only PDF, DOCX and plain text resumes are supported", http.StatusUnsupportedMediaType)
	}

	p, err := s.resolveParser(req.Parser)
	if err != nil {
		return nil, err
	}

	text, err := extract.Extract(format, req.Data)
	if err != nil {
		return nil, apperrors.Wrap(err, "EXTRACTION_FAILED", "could not read text from the uploaded file", http.StatusUnprocessableEntity)
	}
	doc := p.Parse(text)

	tailoring := &domain.Tailoring{
		ID:             uuid.New().String(),
		AccountID:      accountID,
		Title:          titleOrDefault(req.Title, req.FileName),
		JobDescription: req.JobDescription,
		FileName:       objectstore.SanitizeFileName(req.FileName),
		ContentType:    format.ContentType(),
		Parser:         p.Name(),
		RawText:        doc.RawText,
	}
	tailoring.ObjectKey = objectstore.Key(accountID, tailoring.ID, req.FileName)

	if err := s.store.Put(ctx, tailoring.ObjectKey, tailoring.ContentType, req.Data); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	sections, err := s.repo.Create(ctx, tailoring, doc.Sections)
	if err != nil {
		s.discardUpload(ctx, tailoring.ObjectKey)
		return nil, err
	}

	s.logger.Info().
		Str("account_id", accountID).
		Str("tailoring_id", tailoring.ID).
		Str("parser", tailoring.Parser).
		Int("sections", len(sections)).
		Msg("resume processed")

	s.publisher.PublishProcessed(ctx, tailoring, len(sections))

	return &domain.TailoringDetail{Tailoring: tailoring, Sections: sections}, nil
}

func (s *ResumeService) resolveParser(name string) (parser.Parser, error) {
	if name == "" {
		name = s.config.Parser.Default
	}
	p, err := s.parsers.Get(name)
	if err != nil {
		return nil, apperrors.Wrap(err, "PARSER_NOT_SUPPORTED", err.Error(), http.StatusBadRequest)
	}
	return p, nil
}

// discardUpload is the single compensating delete after a failed write. It is not retried.
func (s *ResumeService) discardUpload(ctx context.Context, key string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("failed to remove upload after persistence failure")
	}
}

func titleOrDefault(title, fileName string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// List returns one dashboard page of the account's tailorings
func (s *ResumeService) List(ctx context.Context, accountID string, page, perPage int) ([]*domain.TailoringSummary, int64, error) {
	return s.repo.ListByAccount(ctx, accountID, perPage, (page-1)*perPage)
}

// Get returns a tailoring with its sections in position order
func (s *ResumeService) Get(ctx context.Context, accountID, id string) (*domain.TailoringDetail, error) {
	tailoring, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.repo.ListSections(ctx, tailoring.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TailoringDetail{Tailoring: tailoring, Sections: sections}, nil
}

// UpdateSection edits the text of one parsed section
func (s *ResumeService) UpdateSection(ctx context.Context, accountID, id, sectionID string, req *domain.UpdateSectionRequest) (*domain.ResumeSection, error) {
	if _, err := s.repo.GetByID(ctx, accountID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateSection(ctx, id, sectionID, req.Content)
}

// Delete removes the tailoring and then its stored file
func (s *ResumeService) Delete(ctx context.Context, accountID, id string) error {
	tailoring, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, tailoring.ObjectKey); err != nil {
		s.logger.Error().Err(err).Str("object_key", tailoring.ObjectKey).Msg("failed to delete stored resume")
	}

	s.publisher.PublishDeleted(ctx, tailoring)
	return nil
}

// Download returns the originally uploaded file
func (s *ResumeService) Download(ctx context.Context, accountID, id string) (*domain.Tailoring, *objectstore.Object, error) {
	tailoring, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.store.Get(ctx, tailoring.ObjectKey)
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil, nil, apperrors.NotFound("file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download resume: %w", err)
	}
	return tailoring, obj, nil
}
