package services

import (
	"context"
	"fmt"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/store"
)

// UserService exposes read-only user lookups. Passwords never leave this
// layer.
type UserService struct {
	store store.Store
}

// NewUserService creates a new user service instance
func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// List returns all users with passwords stripped
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	docs, err := s.store.Query(ctx, models.CollectionUsers, nil)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}

	users, err := store.DecodeAll[models.User](docs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// GetByHandle returns a single user by USN/EMP with the password stripped
func (s *UserService) GetByHandle(ctx context.Context, usn string) (*models.User, error) {
	user, err := findUserByHandle(ctx, s.store, usn)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}
