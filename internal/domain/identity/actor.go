package identity

import "github.com/google/uuid"

// Actor identifies who is performing an operation. It is resolved from
// the authenticated request and passed explicitly to every workflow
// method so authorization never depends on ambient state.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsEmployee reports whether the actor holds the employee role
func (a Actor) IsEmployee() bool {
	return a.Role == RoleEmployee
}
