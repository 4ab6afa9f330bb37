package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Role represents the system role of a user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// IsValid checks whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account in the supply office system
type User struct {
	shared.BaseAggregateRoot
	Name  string `gorm:"size:200;not null"`
	Email string `gorm:"size:255;not null;uniqueIndex"`
	Role  Role   `gorm:"size:20;not null;index"`
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with required fields
func NewUser(name, email string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or employee")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Role:              role,
	}, nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Rename updates the display name
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}
