package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

var ErrCategoryNameTaken = repository.ErrCategoryNameTaken

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	Save(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, from, size int) ([]domain.Category, error)
}

type EventChecker interface {
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type CategoryService struct {
	repo   CategoryRepository
	events EventChecker
}

func NewCategoryService(repo CategoryRepository, events EventChecker) *CategoryService {
	return &CategoryService{
		repo:   repo,
		events: events,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return domain.Category{}, apperr.Conflict("category name %q is already taken", category.Name)
		}

		return domain.Category{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	current, err := s.repo.GetByID(ctx, category.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.Category{}, apperr.NotFound("category %d not found", category.ID)
		}

		return domain.Category{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	current.Name = category.Name

	updated, err := s.repo.Save(ctx, current)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return domain.Category{}, apperr.Conflict("category name %q is already taken", category.Name)
		}

		return domain.Category{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return updated, nil
}

// DeleteCategory removes a category that no event references.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return apperr.NotFound("category %d not found", id)
		}

		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	inUse, err := s.events.ExistsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("s.events.ExistsByCategory -> %w", err)
	}
	if inUse {
		return apperr.Conflict("category %d is not empty", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.Category{}, apperr.NotFound("category %d not found", id)
		}

		return domain.Category{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, from, size int) ([]domain.Category, error) {
	categories, err := s.repo.List(ctx, from, size)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return categories, nil
}
