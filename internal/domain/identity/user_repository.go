package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByRole returns all users holding the given role
	FindByRole(ctx context.Context, role Role) ([]*User, error)

	// FindAll returns all users
	FindAll(ctx context.Context) ([]*User, error)
}
