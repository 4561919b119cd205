package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewUser("Jamie@Example.com", "jamie", "sup3rsecret", RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "jamie@example.com", u.Email)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.NotEqual(t, "sup3rsecret", u.PasswordHash)
		assert.True(t, u.CheckPassword("sup3rsecret"))
		assert.False(t, u.CheckPassword("wrong"))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "jamie", "sup3rsecret", RoleCustomer)
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_EMAIL", derr.Code)
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("a@b.co", "j", "sup3rsecret", RoleCustomer)
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("a@b.co", "jamie", "short", RoleCustomer)
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_PASSWORD", derr.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("a@b.co", "jamie", "sup3rsecret", Role("superuser"))
		require.Error(t, err)
	})
}

func TestNewSeller(t *testing.T) {
	t.Run("requires a store name", func(t *testing.T) {
		_, err := NewSeller("a@b.co", "jamie", "sup3rsecret", "   ")
		require.Error(t, err)
	})

	t.Run("creates seller with trimmed store name", func(t *testing.T) {
		u, err := NewSeller("a@b.co", "jamie", "sup3rsecret", "  Jamie's Shoes ")
		require.NoError(t, err)
		assert.Equal(t, RoleSeller, u.Role)
		assert.Equal(t, "Jamie's Shoes", u.StoreName)
		assert.Equal(t, "Jamie's Shoes", u.DisplayName())
	})
}

func TestUserChangePassword(t *testing.T) {
	u, err := NewUser("a@b.co", "jamie", "sup3rsecret", RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("an0thersecret"))
	assert.True(t, u.CheckPassword("an0thersecret"))
	assert.False(t, u.CheckPassword("sup3rsecret"))

	require.Error(t, u.ChangePassword("short"))
}

func TestUserSuspendActivate(t *testing.T) {
	u, err := NewUser("a@b.co", "jamie", "sup3rsecret", RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, u.Suspend())
	assert.False(t, u.IsActive())
	assert.ErrorIs(t, u.Suspend(), shared.ErrInvalidState)

	require.NoError(t, u.Activate())
	assert.True(t, u.IsActive())
	assert.ErrorIs(t, u.Activate(), shared.ErrInvalidState)
}

func TestUserUpdateProfile(t *testing.T) {
	u, err := NewUser("a@b.co", "jamie", "sup3rsecret", RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("jdoe", "555-0100", ""))
	assert.Equal(t, "jdoe", u.Username)
	assert.Equal(t, "555-0100", u.Phone)

	require.NoError(t, u.UpdateProfile("", "", ""))
	assert.Equal(t, "jdoe", u.Username)

	require.Error(t, u.UpdateProfile("x", "", ""))
}

func TestActor(t *testing.T) {
	userID := uuid.New()

	t.Run("Anonymous is unauthenticated", func(t *testing.T) {
		assert.False(t, Anonymous.IsAuthenticated())
		assert.False(t, Anonymous.Is(uuid.Nil))
	})

	t.Run("role predicates", func(t *testing.T) {
		admin := Actor{UserID: userID, Role: RoleAdmin}
		assert.True(t, admin.IsAuthenticated())
		assert.True(t, admin.IsAdmin())
		assert.False(t, admin.IsSeller())
	})

	t.Run("Is matches only the same user", func(t *testing.T) {
		a := Actor{UserID: userID, Role: RoleCustomer}
		assert.True(t, a.Is(userID))
		assert.False(t, a.Is(uuid.New()))
	})
}
