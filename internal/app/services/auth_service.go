package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/pkg/auth"
	"github.com/arunhegde/campusdesk/internal/store"
)

// AuthService handles registration and login
type AuthService struct {
	store  store.Store
	trail  *audit.Trail
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(st store.Store, trail *audit.Trail, jwt *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:  st,
		trail:  trail,
		jwt:    jwt,
		logger: logger,
	}
}

// Register creates a new user. The USN/EMP handle must be unique; the
// pre-check leaves a small race window between check and write, which is
// accepted (the store offers no cross-document constraint).
func (s *AuthService) Register(ctx context.Context, usn, name, password string, role models.Role) (*models.User, error) {
	if isBlank(usn) {
		return nil, apperrors.NewValidationError("usn is required")
	}
	if isBlank(name) {
		return nil, apperrors.NewValidationError("name is required")
	}
	if isBlank(password) {
		return nil, apperrors.NewValidationError("password is required")
	}
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin, models.RoleLibrarian:
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	existing, err := findUserByHandle(ctx, s.store, usn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrHandleExists
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		ID:       uuid.New().String(),
		USNEmp:   usn,
		Name:     name,
		Password: hashed,
		Role:     role,
	}

	doc, err := store.Encode(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, models.CollectionUsers, user.ID, doc); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.trail.Record(ctx, "User Registered", usn, map[string]interface{}{
		"role": string(role),
	})

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// LoginResult carries the authenticated user and an access token
type LoginResult struct {
	User      models.User
	Token     string
	ExpiresIn int
}

// Login authenticates a user by handle and password
func (s *AuthService) Login(ctx context.Context, usn, password string) (*LoginResult, error) {
	if isBlank(usn) || isBlank(password) {
		return nil, apperrors.NewValidationError("usn and password are required")
	}

	user, err := findUserByHandle(ctx, s.store, usn)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateToken(user.USNEmp, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info().Str("usn", user.USNEmp).Msg("User logged in")

	return &LoginResult{
		User:      user.Sanitized(),
		Token:     token,
		ExpiresIn: expiresIn,
	}, nil
}
