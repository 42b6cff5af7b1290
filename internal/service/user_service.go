package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
	"cartify/internal/repository"
)

// UserService exposes account operations for an authenticated user.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a user service.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user record. Orders, addresses and reviews are
// left in place.
func (s *userService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
