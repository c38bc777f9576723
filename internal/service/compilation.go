package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

var ErrCompilationNotFound = repository.ErrCompilationNotFound

// CompilationUpdate carries a partial edit; nil fields stay untouched. A
// non-nil empty EventIDs slice clears the compilation.
type CompilationUpdate struct {
	Title    *string
	Pinned   *bool
	EventIDs []int64
}

type CompilationRepository interface {
	Create(ctx context.Context, compilation domain.Compilation) (domain.Compilation, error)
	GetByID(ctx context.Context, id int64) (domain.Compilation, error)
	Save(ctx context.Context, compilation domain.Compilation, replaceEvents bool) (domain.Compilation, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pinned *bool, from, size int) ([]domain.Compilation, error)
}

type EventLister interface {
	FindAllByIDs(ctx context.Context, ids []int64) ([]domain.Event, error)
}

type CompilationService struct {
	repo   CompilationRepository
	events EventLister
}

func NewCompilationService(repo CompilationRepository, events EventLister) *CompilationService {
	return &CompilationService{
		repo:   repo,
		events: events,
	}
}

func (s *CompilationService) CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (domain.Compilation, error) {
	events, err := s.resolveEvents(ctx, eventIDs)
	if err != nil {
		return domain.Compilation{}, err
	}

	created, err := s.repo.Create(ctx, domain.Compilation{
		Title:  title,
		Pinned: pinned,
		Events: events,
	})
	if err != nil {
		return domain.Compilation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompilationService) UpdateCompilation(ctx context.Context, id int64, update CompilationUpdate) (domain.Compilation, error) {
	compilation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompilationNotFound) {
			return domain.Compilation{}, apperr.NotFound("compilation %d not found", id)
		}

		return domain.Compilation{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if update.Title != nil {
		compilation.Title = *update.Title
	}
	if update.Pinned != nil {
		compilation.Pinned = *update.Pinned
	}

	replaceEvents := update.EventIDs != nil
	if replaceEvents {
		events, err := s.resolveEvents(ctx, update.EventIDs)
		if err != nil {
			return domain.Compilation{}, err
		}
		compilation.Events = events
	}

	updated, err := s.repo.Save(ctx, compilation, replaceEvents)
	if err != nil {
		return domain.Compilation{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return updated, nil
}

func (s *CompilationService) DeleteCompilation(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCompilationNotFound) {
			return apperr.NotFound("compilation %d not found", id)
		}

		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *CompilationService) GetCompilation(ctx context.Context, id int64) (domain.Compilation, error) {
	compilation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompilationNotFound) {
			return domain.Compilation{}, apperr.NotFound("compilation %d not found", id)
		}

		return domain.Compilation{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return compilation, nil
}

func (s *CompilationService) ListCompilations(ctx context.Context, pinned *bool, from, size int) ([]domain.Compilation, error) {
	compilations, err := s.repo.List(ctx, pinned, from, size)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return compilations, nil
}

func (s *CompilationService) resolveEvents(ctx context.Context, eventIDs []int64) ([]domain.Event, error) {
	if len(eventIDs) == 0 {
		return []domain.Event{}, nil
	}

	events, err := s.events.FindAllByIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindAllByIDs -> %w", err)
	}
	if len(events) != len(eventIDs) {
		return nil, apperr.NotFound("some of the events %v do not exist", eventIDs)
	}

	return events, nil
}
