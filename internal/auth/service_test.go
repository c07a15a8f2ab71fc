package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/config"
	"librarium/internal/entities"
)

type stubDirectory struct {
	users map[string]*entities.User
}

func (d *stubDirectory) FindUserByNameOrEmail(nameOrEmail string) *entities.User {
	return d.users[nameOrEmail]
}

func setupService(t *testing.T) *Service {
	t.Helper()

	alice := &entities.User{ID: 3, Name: "Alice", Email: "alice@example.com"}
	directory := &stubDirectory{users: map[string]*entities.User{
		"Alice":             alice,
		"alice@example.com": alice,
	}}

	// Minimum bcrypt cost keeps the test fast.
	service, err := NewService(directory, config.Auth{
		AdminUsername: "admin",
		AdminPassword: "1234",
		BcryptCost:    4,
	})
	require.NoError(t, err)
	return service
}

func TestService_Authenticate(t *testing.T) {
	service := setupService(t)

	t.Run("admin with correct password", func(t *testing.T) {
		identity, err := service.Authenticate("admin", "1234")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, identity.Role)
		assert.Equal(t, AdminUserID, identity.UserID)
		assert.Equal(t, "admin", identity.Username)
	})

	t.Run("admin with wrong password", func(t *testing.T) {
		_, err := service.Authenticate("admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("reader by name with id password", func(t *testing.T) {
		identity, err := service.Authenticate("Alice", "3")
		require.NoError(t, err)
		assert.Equal(t, RoleReader, identity.Role)
		assert.Equal(t, 3, identity.UserID)
		assert.Equal(t, "Alice", identity.Username)
	})

	t.Run("reader by email", func(t *testing.T) {
		identity, err := service.Authenticate("alice@example.com", "3")
		require.NoError(t, err)
		assert.Equal(t, 3, identity.UserID)
	})

	t.Run("reader with wrong password", func(t *testing.T) {
		_, err := service.Authenticate("Alice", "4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Authenticate("Nobody", "1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
