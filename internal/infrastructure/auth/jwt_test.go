package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars!!",
		AccessTokenExpiration: expiration,
		Issuer:                "supplyoffice",
	})
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Maria Santos", "maria.santos@college.edu", role)
	require.NoError(t, err)
	return user
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	user := newTestUser(t, identity.RoleAdmin)

	token, expiresAt, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "Maria Santos", claims.Name)
	assert.Equal(t, string(identity.RoleAdmin), claims.Role)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.True(t, actor.IsAdmin())
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateToken(newTestUser(t, identity.RoleEmployee))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).GenerateToken(newTestUser(t, identity.RoleEmployee))
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "a-different-secret-also-32-chars!!!!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "supplyoffice",
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := newTestService(time.Hour)
	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
