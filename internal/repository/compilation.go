package repository

import (
	"context"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var ErrCompilationNotFound = dao.ErrCompilationNotFound

type CompilationDAO interface {
	Insert(ctx context.Context, compilation dao.Compilation) (dao.Compilation, error)
	FindByID(ctx context.Context, id int64) (dao.Compilation, error)
	Update(ctx context.Context, compilation dao.Compilation, replaceEvents bool) (dao.Compilation, error)
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, pinned *bool, from, size int) ([]dao.Compilation, error)
}

type CompilationRepository struct {
	dao CompilationDAO
}

func NewCompilationRepository(dao CompilationDAO) *CompilationRepository {
	return &CompilationRepository{
		dao: dao,
	}
}

func compilationDomainToDao(c domain.Compilation) dao.Compilation {
	events := make([]dao.Event, len(c.Events))
	for i, e := range c.Events {
		events[i] = eventDomainToDao(e)
	}

	return dao.Compilation{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: events,
	}
}

func compilationDaoToDomain(c dao.Compilation) domain.Compilation {
	return domain.Compilation{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: eventsDaoToDomain(c.Events),
	}
}

func (r *CompilationRepository) Create(ctx context.Context, compilation domain.Compilation) (domain.Compilation, error) {
	created, err := r.dao.Insert(ctx, compilationDomainToDao(compilation))
	if err != nil {
		return domain.Compilation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return compilationDaoToDomain(created), nil
}

func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (domain.Compilation, error) {
	compilation, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Compilation{}, err
	}

	return compilationDaoToDomain(compilation), nil
}

func (r *CompilationRepository) Save(ctx context.Context, compilation domain.Compilation, replaceEvents bool) (domain.Compilation, error) {
	updated, err := r.dao.Update(ctx, compilationDomainToDao(compilation), replaceEvents)
	if err != nil {
		return domain.Compilation{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return compilationDaoToDomain(updated), nil
}

func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CompilationRepository) List(ctx context.Context, pinned *bool, from, size int) ([]domain.Compilation, error) {
	compilations, err := r.dao.FindAll(ctx, pinned, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	out := make([]domain.Compilation, len(compilations))
	for i, c := range compilations {
		out[i] = compilationDaoToDomain(c)
	}

	return out, nil
}
