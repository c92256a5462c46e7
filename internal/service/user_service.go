package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"staffhub/internal/auth"
	apperrors "staffhub/internal/errors"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// UserUpdate describes a partial user mutation. Nil pointers mean "leave
// unchanged". FullNameSet distinguishes an explicit null (clear the name)
// from an omitted field.
type UserUpdate struct {
	Username    *string
	Email       *string
	Password    *string
	FullName    *string
	FullNameSet bool
	IsActive    *bool
	IsSuperuser *bool
}

// UserService exposes the superuser-gated administration operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]model.User, error)
	UpdateUser(ctx context.Context, id uint, update UserUpdate) (*model.User, error)
}

type userService struct {
	repo        repository.UserRepository
	pages       PageDefaults
	passwordMin int
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, pages PageDefaults, passwordMin int) UserService {
	if passwordMin <= 0 {
		passwordMin = 8
	}
	return &userService{repo: repo, pages: pages.normalized(), passwordMin: passwordMin}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]model.User, error) {
	page, limit = s.pages.clamp(page, limit)
	return s.repo.List(ctx, (page-1)*limit, limit)
}

// UpdateUser applies a partial update. Only the provided fields change;
// a username or email colliding with a different user is a conflict, both
// by pre-check and by the duplicate-key fallback.
func (s *userService) UpdateUser(ctx context.Context, id uint, update UserUpdate) (*model.User, error) {
	var updated *model.User
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		if update.Username != nil {
			username := strings.TrimSpace(*update.Username)
			if len(username) < 3 || len(username) > 50 {
				return apperrors.NewValidationError("username must be between 3 and 50 characters")
			}
			if username != user.Username {
				if other, err := repo.FindByUsername(ctx, username); err == nil && other.ID != id {
					return apperrors.ErrUsernameTaken
				} else if err != nil && err != gorm.ErrRecordNotFound {
					return fmt.Errorf("check username: %w", err)
				}
			}
			user.Username = username
		}

		if update.Email != nil && *update.Email != user.Email {
			if other, err := repo.FindByEmail(ctx, *update.Email); err == nil && other.ID != id {
				return apperrors.ErrEmailTaken
			} else if err != nil && err != gorm.ErrRecordNotFound {
				return fmt.Errorf("check email: %w", err)
			}
			user.Email = *update.Email
		}

		if update.Password != nil {
			if len(*update.Password) < s.passwordMin {
				return apperrors.NewValidationError(
					fmt.Sprintf("password must be at least %d characters", s.passwordMin))
			}
			hash, err := auth.HashPassword(*update.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		if update.FullNameSet {
			user.FullName = update.FullName
		}
		if update.IsActive != nil {
			user.IsActive = *update.IsActive
		}
		if update.IsSuperuser != nil {
			user.IsSuperuser = *update.IsSuperuser
		}

		if err := repo.Update(ctx, user); err != nil {
			if err == gorm.ErrDuplicatedKey {
				if other, findErr := repo.FindByUsername(ctx, user.Username); findErr == nil && other.ID != id {
					return apperrors.ErrUsernameTaken
				}
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("update user: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
