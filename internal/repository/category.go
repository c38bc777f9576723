package repository

import (
	"context"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var (
	ErrCategoryNotFound  = dao.ErrCategoryNotFound
	ErrCategoryNameTaken = dao.ErrCategoryNameTaken
)

type CategoryDAO interface {
	Insert(ctx context.Context, category dao.Category) (dao.Category, error)
	FindByID(ctx context.Context, id int64) (dao.Category, error)
	Update(ctx context.Context, category dao.Category) (dao.Category, error)
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, from, size int) ([]dao.Category, error)
}

type CategoryRepository struct {
	dao CategoryDAO
}

func NewCategoryRepository(dao CategoryDAO) *CategoryRepository {
	return &CategoryRepository{
		dao: dao,
	}
}

func categoryDaoToDomain(c dao.Category) domain.Category {
	return domain.Category{
		ID:   c.ID,
		Name: c.Name,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := r.dao.Insert(ctx, dao.Category{Name: category.Name})
	if err != nil {
		return domain.Category{}, err
	}

	return categoryDaoToDomain(created), nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	category, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	return categoryDaoToDomain(category), nil
}

func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) (domain.Category, error) {
	updated, err := r.dao.Update(ctx, dao.Category{ID: category.ID, Name: category.Name})
	if err != nil {
		return domain.Category{}, err
	}

	return categoryDaoToDomain(updated), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CategoryRepository) List(ctx context.Context, from, size int) ([]domain.Category, error) {
	categories, err := r.dao.FindAll(ctx, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	out := make([]domain.Category, len(categories))
	for i, c := range categories {
		out[i] = categoryDaoToDomain(c)
	}

	return out, nil
}
