package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"staffhub/internal/model"
)

// EmployeeFilter narrows employee listings. Department and Role match their
// columns case-insensitively as substrings; Search matches name OR email
// the same way. Empty fields are ignored.
type EmployeeFilter struct {
	Department string
	Role       string
	Search     string
}

// EmployeeRepository defines employee persistence operations.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeFilter, offset, limit int) ([]model.Employee, error)
	Count(ctx context.Context, filter EmployeeFilter) (int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uint) error
	// WithTransaction runs fn against a transaction-scoped repository.
	// Any error from fn rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EmployeeRepository) error) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository builds a GORM-backed repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter, offset, limit int) ([]model.Employee, error) {
	var employees []model.Employee
	err := applyFilter(r.db.WithContext(ctx), filter).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) Count(ctx context.Context, filter EmployeeFilter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&model.Employee{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Employee{}, id).Error
}

func (r *employeeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EmployeeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &employeeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func applyFilter(db *gorm.DB, filter EmployeeFilter) *gorm.DB {
	if filter.Department != "" {
		db = db.Where("LOWER(department) LIKE ?", contains(filter.Department))
	}
	if filter.Role != "" {
		db = db.Where("LOWER(role) LIKE ?", contains(filter.Role))
	}
	if filter.Search != "" {
		term := contains(filter.Search)
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	return db
}

func contains(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
