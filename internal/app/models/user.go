package models

import (
	"time"
)

// RoleType represents a staff user role
type RoleType string

const (
	// RoleAdmin can manage staff and remove notices in addition to everything staff can do
	RoleAdmin RoleType = "ADMIN"
	// RoleStaff reviews admissions, reads the student directory and publishes notices
	RoleStaff RoleType = "STAFF"
)

// User defines the staff user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"staff@school.edu.tr"`
	Password    string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"Mehmet"`
	LastName    string     `json:"lastName" db:"last_name" example:"Demir"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"STAFF"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
