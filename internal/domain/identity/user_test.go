package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates valid user", func(t *testing.T) {
		user, err := NewUser("Maria Santos", "Maria.Santos@example.edu", RoleEmployee)
		require.NoError(t, err)
		assert.Equal(t, "Maria Santos", user.Name)
		assert.Equal(t, "maria.santos@example.edu", user.Email)
		assert.Equal(t, RoleEmployee, user.Role)
		assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("  ", "a@b.com", RoleAdmin)
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("Maria", "not-an-email", RoleAdmin)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("Maria", "a@b.com", Role("superuser"))
		assert.Error(t, err)
	})
}

func TestUserIsAdmin(t *testing.T) {
	admin, err := NewUser("Admin", "admin@example.edu", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	employee, err := NewUser("Emp", "emp@example.edu", RoleEmployee)
	require.NoError(t, err)
	assert.False(t, employee.IsAdmin())
}

func TestActorRoles(t *testing.T) {
	assert.True(t, Actor{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Actor{Role: RoleAdmin}.IsEmployee())
	assert.True(t, Actor{Role: RoleEmployee}.IsEmployee())
}
