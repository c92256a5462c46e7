package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"staffhub/internal/auth"
	apperrors "staffhub/internal/errors"
	"staffhub/internal/metrics"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// RegisterParams carries a registration request into the service layer.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// AuthService handles registration, login, and principal resolution.
type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, err error)
	// CurrentUser resolves a validated token subject to a live user. It
	// fails when the user is missing or deactivated, so a token alone is
	// never enough to act on behalf of a disabled account.
	CurrentUser(ctx context.Context, username string) (*model.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	passwordMin int
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, passwordMin int) AuthService {
	if passwordMin <= 0 {
		passwordMin = 8
	}
	return &authService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		passwordMin: passwordMin,
	}
}

// Register creates a new user with a hashed password. Username and email
// uniqueness are pre-checked inside the transaction; a concurrent insert
// slipping past the pre-check still surfaces as the same conflict via the
// duplicate-key error from the unique index.
func (s *authService) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	username := strings.TrimSpace(params.Username)
	if len(username) < 3 || len(username) > 50 {
		return nil, apperrors.NewValidationError("username must be between 3 and 50 characters")
	}
	if len(params.Password) < s.passwordMin {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.passwordMin))
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        params.Email,
		PasswordHash: hash,
		FullName:     params.FullName,
		IsActive:     true,
		IsSuperuser:  false,
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return apperrors.ErrUsernameTaken
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check username: %w", err)
		}
		if _, err := repo.FindByEmail(ctx, params.Email); err == nil {
			return apperrors.ErrEmailTaken
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check email: %w", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			return resolveUserConflict(ctx, repo, username, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return user, nil
}

// Login authenticates a user and returns a signed access token. The error
// is identical for an unknown username and a wrong password.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

func (s *authService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}

// resolveUserConflict turns a duplicate-key insert failure into the
// conflict error for whichever unique column actually collided.
func resolveUserConflict(ctx context.Context, repo repository.UserRepository, username string, err error) error {
	if err != gorm.ErrDuplicatedKey {
		return fmt.Errorf("create user: %w", err)
	}
	if _, findErr := repo.FindByUsername(ctx, username); findErr == nil {
		return apperrors.ErrUsernameTaken
	}
	return apperrors.ErrEmailTaken
}
