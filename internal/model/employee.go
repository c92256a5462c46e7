package model

import "time"

// Employee represents a staff record. Employees are independent of users:
// any active authenticated user can manage them and no creator is tracked.
type Employee struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Department string    `json:"department,omitempty" gorm:"size:100;index:idx_department_role"`
	Role       string    `json:"role,omitempty" gorm:"size:100;index:idx_department_role"`
	DateJoined time.Time `json:"date_joined" gorm:"not null"`
}
