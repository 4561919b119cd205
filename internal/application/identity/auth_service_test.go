package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shoemarket/backend/internal/infrastructure/auth"
	"github.com/shoemarket/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-test-access-secret",
		RefreshSecret:          "test-refresh-secret-test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shoemarket-test",
		MaxRefreshCount:        5,
	})
}

func newAuthFixture() (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	users := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(users, testJWTService(), blacklist, zap.NewNop())
	return svc, users, blacklist
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers customer and issues a session", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		users.On("ExistsByEmail", ctx, "jamie@example.com").Return(false, nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{
			Email:    "jamie@example.com",
			Username: "jamie",
			Password: "sup3rsecret",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "customer", resp.User.Role)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		users.On("ExistsByEmail", ctx, "jamie@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "jamie@example.com",
			Username: "jamie",
			Password: "sup3rsecret",
		})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "EMAIL_TAKEN", derr.Code)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("registers seller with store name", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		users.On("ExistsByEmail", ctx, "store@example.com").Return(false, nil)
		users.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.RegisterSeller(ctx, RegisterSellerRequest{
			Email:     "store@example.com",
			Username:  "storekeeper",
			Password:  "sup3rsecret",
			StoreName: "Jamie's Shoes",
		})
		require.NoError(t, err)
		assert.Equal(t, "seller", resp.User.Role)
		assert.Equal(t, "Jamie's Shoes", resp.User.StoreName)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	newUser := func(t *testing.T) *identity.User {
		t.Helper()
		u, err := identity.NewUser("jamie@example.com", "jamie", "sup3rsecret", identity.RoleCustomer)
		require.NoError(t, err)
		return u
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		u := newUser(t)
		users.On("FindByEmail", ctx, "jamie@example.com").Return(u, nil)
		users.On("Save", ctx, u).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Email: "jamie@example.com", Password: "sup3rsecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		require.NotNil(t, u.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		users.On("FindByEmail", ctx, "jamie@example.com").Return(newUser(t), nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "jamie@example.com", Password: "wrong"})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("unknown email uses the same error code", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("suspended account", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		u := newUser(t)
		require.NoError(t, u.Suspend())
		users.On("FindByEmail", ctx, "jamie@example.com").Return(u, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "jamie@example.com", Password: "sup3rsecret"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ACCOUNT_SUSPENDED", derr.Code)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *AuthService, users *MockUserRepository) (*identity.User, *AuthResponse) {
		t.Helper()
		u, err := identity.NewUser("jamie@example.com", "jamie", "sup3rsecret", identity.RoleCustomer)
		require.NoError(t, err)
		users.On("FindByEmail", ctx, u.Email).Return(u, nil)
		users.On("Save", ctx, u).Return(nil)
		session, err := svc.Login(ctx, LoginRequest{Email: u.Email, Password: "sup3rsecret"})
		require.NoError(t, err)
		return u, session
	}

	t.Run("exchanges a valid refresh token", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		u, session := login(t, svc, users)
		users.On("FindByID", ctx, u.ID).Return(u, nil)

		resp, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: session.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEqual(t, session.RefreshToken, resp.RefreshToken)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		svc, _, _ := newAuthFixture()
		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TOKEN_INVALID", derr.Code)
	})

	t.Run("rejects an access token used as refresh token", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		_, session := login(t, svc, users)

		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: session.AccessToken})
		require.Error(t, err)
	})

	t.Run("refresh after logout is revoked", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		u, session := login(t, svc, users)

		actor := identity.Actor{UserID: u.ID, Role: u.Role}
		require.NoError(t, svc.Logout(ctx, actor, session.AccessToken))

		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: session.RefreshToken})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TOKEN_REVOKED", derr.Code)
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates password and revokes sessions", func(t *testing.T) {
		svc, users, blacklist := newAuthFixture()
		u, err := identity.NewUser("jamie@example.com", "jamie", "sup3rsecret", identity.RoleCustomer)
		require.NoError(t, err)
		actor := identity.Actor{UserID: u.ID, Role: u.Role}

		users.On("FindByID", ctx, u.ID).Return(u, nil)
		users.On("Save", ctx, u).Return(nil)

		err = svc.ChangePassword(ctx, actor, ChangePasswordRequest{
			OldPassword: "sup3rsecret",
			NewPassword: "n3wsecret!!",
		})
		require.NoError(t, err)
		assert.True(t, u.CheckPassword("n3wsecret!!"))

		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, u.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, users, _ := newAuthFixture()
		u, err := identity.NewUser("jamie@example.com", "jamie", "sup3rsecret", identity.RoleCustomer)
		require.NoError(t, err)
		actor := identity.Actor{UserID: u.ID, Role: u.Role}

		users.On("FindByID", ctx, u.ID).Return(u, nil)

		err = svc.ChangePassword(ctx, actor, ChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "n3wsecret!!",
		})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})
}
