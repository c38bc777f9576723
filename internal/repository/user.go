package repository

import (
	"context"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var ErrUserEmailExists = dao.ErrUserEmailExists

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAllByIDs(ctx context.Context, ids []int64, from, size int) ([]dao.User, error)
	FindAll(ctx context.Context, from, size int) ([]dao.User, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func usersDaoToDomain(users []dao.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = userDaoToDomain(u)
	}
	return out
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{Name: user.Name, Email: user.Email})
	if err != nil {
		return domain.User{}, err
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.dao.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByID -> %w", err)
	}

	return exists, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []int64, from, size int) ([]domain.User, error) {
	users, err := r.dao.FindAllByIDs(ctx, ids, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByIDs -> %w", err)
	}

	return usersDaoToDomain(users), nil
}

func (r *UserRepository) List(ctx context.Context, from, size int) ([]domain.User, error) {
	users, err := r.dao.FindAll(ctx, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return usersDaoToDomain(users), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
