package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/cache"
	apperrors "staffhub/internal/errors"
	"staffhub/internal/metrics"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

const employeeCacheTTL = 5 * time.Minute

// EmployeeCreate carries a creation request into the service layer.
type EmployeeCreate struct {
	Name       string
	Email      string
	Department string
	Role       string
}

// EmployeeUpdate describes a partial employee mutation. Nil pointers mean
// "leave unchanged"; a pointer to the empty string clears the optional
// department/role fields.
type EmployeeUpdate struct {
	Name       *string
	Email      *string
	Department *string
	Role       *string
}

// EmployeePage is one window of a filtered listing plus the total match
// count independent of the window.
type EmployeePage struct {
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
	Employees []model.Employee `json:"employees"`
}

// EmployeeService exposes employee domain operations.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, params EmployeeCreate) (*model.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*model.Employee, error)
	ListEmployees(ctx context.Context, filter repository.EmployeeFilter, page, limit int) (*EmployeePage, error)
	UpdateEmployee(ctx context.Context, id uint, update EmployeeUpdate) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}

type employeeService struct {
	repo  repository.EmployeeRepository
	cache *cache.Client
	pages PageDefaults
}

// NewEmployeeService builds an EmployeeService with repository and cache.
func NewEmployeeService(repo repository.EmployeeRepository, cache *cache.Client, pages PageDefaults) EmployeeService {
	return &employeeService{repo: repo, cache: cache, pages: pages.normalized()}
}

func (s *employeeService) cacheKey(id uint) string {
	return fmt.Sprintf("employee:%d", id)
}

// CreateEmployee validates the draft and inserts it. Email uniqueness is
// pre-checked inside the transaction, with the unique index as the backstop
// for concurrent inserts.
func (s *employeeService) CreateEmployee(ctx context.Context, params EmployeeCreate) (*model.Employee, error) {
	name := strings.TrimSpace(params.Name)
	if err := validateEmployeeName(name); err != nil {
		return nil, err
	}

	employee := &model.Employee{
		Name:       name,
		Email:      params.Email,
		Department: params.Department,
		Role:       params.Role,
		DateJoined: time.Now().UTC(),
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.EmployeeRepository) error {
		if _, err := repo.FindByEmail(ctx, params.Email); err == nil {
			return apperrors.ErrEmailTaken
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check email: %w", err)
		}

		if err := repo.Create(ctx, employee); err != nil {
			if err == gorm.ErrDuplicatedKey {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EmployeesCreatedTotal.Inc()
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uint) (*model.Employee, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Employee
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.EmployeeCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
	}
	metrics.EmployeeCacheTotal.WithLabelValues("miss").Inc()

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(employee); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, employeeCacheTTL)
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter, page, limit int) (*EmployeePage, error) {
	page, limit = s.pages.clamp(page, limit)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []model.Employee{}
	}

	return &EmployeePage{
		Total:     total,
		Page:      page,
		Limit:     limit,
		Employees: employees,
	}, nil
}

// UpdateEmployee applies a partial update. Omitted fields keep their prior
// values; changing the email to one held by a different employee is a
// conflict.
func (s *employeeService) UpdateEmployee(ctx context.Context, id uint, update EmployeeUpdate) (*model.Employee, error) {
	var updated *model.Employee
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.EmployeeRepository) error {
		employee, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrEmployeeNotFound
			}
			return err
		}

		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if err := validateEmployeeName(name); err != nil {
				return err
			}
			employee.Name = name
		}
		if update.Email != nil && *update.Email != employee.Email {
			if other, err := repo.FindByEmail(ctx, *update.Email); err == nil && other.ID != id {
				return apperrors.ErrEmailTaken
			} else if err != nil && err != gorm.ErrRecordNotFound {
				return fmt.Errorf("check email: %w", err)
			}
			employee.Email = *update.Email
		}
		if update.Department != nil {
			employee.Department = *update.Department
		}
		if update.Role != nil {
			employee.Role = *update.Role
		}

		if err := repo.Update(ctx, employee); err != nil {
			if err == gorm.ErrDuplicatedKey {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("update employee: %w", err)
		}
		updated = employee
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.EmployeeRepository) error {
		if _, err := repo.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrEmployeeNotFound
			}
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func validateEmployeeName(name string) error {
	if name == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	if len(name) > 100 {
		return apperrors.NewValidationError("name must be at most 100 characters")
	}
	return nil
}
