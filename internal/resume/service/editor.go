package service

import (
	"context"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
	"github.com/resumekit/resumekit-backend/internal/resume/repository"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// Input is an entry payload that knows how to copy itself onto a stored entry
type Input[P any] interface {
	Apply(P)
}

// EntryService edits one kind of structured entry. Every call first checks
// that the tailoring belongs to the caller.
type EntryService[T any, P repository.Record[T]] struct {
	tailorings *repository.TailoringRepository
	entries    *repository.EntryStore[T, P]
	logger     *logger.Logger
}

// NewEntryService creates an entry service over store
func NewEntryService[T any, P repository.Record[T]](tailorings *repository.TailoringRepository, store *repository.EntryStore[T, P], log *logger.Logger) *EntryService[T, P] {
	return &EntryService[T, P]{tailorings: tailorings, entries: store, logger: log}
}

func (s *EntryService[T, P]) authorize(ctx context.Context, accountID, tailoringID string) error {
	_, err := s.tailorings.GetByID(ctx, accountID, tailoringID)
	return err
}

func (s *EntryService[T, P]) List(ctx context.Context, accountID, tailoringID string) ([]*T, error) {
	if err := s.authorize(ctx, accountID, tailoringID); err != nil {
		return nil, err
	}
	return s.entries.List(ctx, tailoringID)
}

func (s *EntryService[T, P]) Create(ctx context.Context, accountID, tailoringID string, in Input[P]) (P, error) {
	var none P
	if err := s.authorize(ctx, accountID, tailoringID); err != nil {
		return none, err
	}

	entry := P(new(T))
	in.Apply(entry)
	entry.Base().TailoringID = tailoringID

	if err := s.entries.Create(ctx, entry); err != nil {
		return none, err
	}
	return entry, nil
}

func (s *EntryService[T, P]) Update(ctx context.Context, accountID, tailoringID, id string, in Input[P]) (P, error) {
	var none P
	if err := s.authorize(ctx, accountID, tailoringID); err != nil {
		return none, err
	}

	existing, err := s.entries.Get(ctx, tailoringID, id)
	if err != nil {
		return none, err
	}

	entry := P(existing)
	in.Apply(entry)
	if err := s.entries.Update(ctx, entry); err != nil {
		return none, err
	}
	return entry, nil
}

func (s *EntryService[T, P]) Delete(ctx context.Context, accountID, tailoringID, id string) error {
	if err := s.authorize(ctx, accountID, tailoringID); err != nil {
		return err
	}
	return s.entries.Delete(ctx, tailoringID, id)
}

// Editor groups the entry services of every kind
type Editor struct {
	Experiences    *EntryService[domain.Experience, *domain.Experience]
	Education      *EntryService[domain.Education, *domain.Education]
	Certifications *EntryService[domain.Certification, *domain.Certification]
	Projects       *EntryService[domain.Project, *domain.Project]
	Skills         *EntryService[domain.Skill, *domain.Skill]
}

// NewEditor wires an entry service to each store in entries
func NewEditor(tailorings *repository.TailoringRepository, entries *repository.Entries, log *logger.Logger) *Editor {
	log = log.WithComponent("section-editor")
	return &Editor{
		Experiences:    NewEntryService(tailorings, entries.Experiences, log),
		Education:      NewEntryService(tailorings, entries.Education, log),
		Certifications: NewEntryService(tailorings, entries.Certifications, log),
		Projects:       NewEntryService(tailorings, entries.Projects, log),
		Skills:         NewEntryService(tailorings, entries.Skills, log),
	}
}
