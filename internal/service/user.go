package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

var ErrUserEmailExists = repository.ErrUserEmailExists

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ListByIDs(ctx context.Context, ids []int64, from, size int) ([]domain.User, error)
	List(ctx context.Context, from, size int) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, apperr.Conflict("email %q is already registered", user.Email)
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ListUsers returns users by id when ids are given, otherwise a page of all users.
func (s *UserService) ListUsers(ctx context.Context, ids []int64, from, size int) ([]domain.User, error) {
	if len(ids) > 0 {
		users, err := s.repo.ListByIDs(ctx, ids, from, size)
		if err != nil {
			return nil, fmt.Errorf("s.repo.ListByIDs -> %w", err)
		}

		return users, nil
	}

	users, err := s.repo.List(ctx, from, size)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.ExistsByID -> %w", err)
	}
	if !exists {
		return apperr.NotFound("user %d not found", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
