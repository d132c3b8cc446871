package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/config"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

func (m *MockUserRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
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

// MockShopRepository is a mock implementation of identity.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Shop), args.Error(1)
}

func (m *MockShopRepository) FindBySlug(ctx context.Context, slug string) (*identity.Shop, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Shop), args.Error(1)
}

func (m *MockShopRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Shop, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Shop), args.Error(1)
}

func (m *MockShopRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShopRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, shop *identity.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

// MockRegistrar is a mock implementation of identity.Registrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) CreateShopWithOwner(ctx context.Context, shop *identity.Shop, owner *identity.User) error {
	args := m.Called(ctx, shop, owner)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func testCodec() *auth.TokenCodec {
	return auth.NewTokenCodec(config.JWTConfig{
		AccessSecret:      "test-access-secret-0123456789abcdef",
		RefreshSecret:     "test-refresh-secret-0123456789abcd",
		AccessExpiration:  15 * time.Minute,
		RefreshExpiration: 7 * 24 * time.Hour,
		Issuer:            "shopledger-test",
	})
}

func newAuthService(userRepo *MockUserRepository, shopRepo *MockShopRepository, registrar *MockRegistrar, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(userRepo, shopRepo, registrar, testCodec(), auth.NewPasswordHasher(), blacklist, zap.NewNop())
}

func activeUser(t *testing.T, password string) *identity.User {
	t.Helper()
	hash, err := auth.NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	shopID := uuid.New()
	user, err := identity.NewUser("owner@example.com", hash, "Owner", identity.RoleAdmin, &shopID)
	require.NoError(t, err)
	return user
}

// =============================================================================
// Login
// =============================================================================

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "correct-horse")
	userRepo.On("FindByEmail", mock.Anything, "owner@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "correct-horse")
	userRepo.On("FindByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pw",
	})

	// Same message as a wrong password, so emails cannot be enumerated.
	assert.Equal(t, invalidCredentials, err)
}

func TestAuthService_Login_DeactivatedUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "correct-horse")
	user.Deactivate()
	userRepo.On("FindByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "correct-horse",
	})

	assert.Equal(t, invalidCredentials, err)
}

// =============================================================================
// Register
// =============================================================================

func TestAuthService_Register_CreatesShopAndAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	shopRepo := new(MockShopRepository)
	registrar := new(MockRegistrar)

	userRepo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	shopRepo.On("ExistsBySlug", mock.Anything, "corner-store").Return(false, nil)
	registrar.On("CreateShopWithOwner", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			shop := args.Get(1).(*identity.Shop)
			owner := args.Get(2).(*identity.User)
			assert.Equal(t, "corner-store", shop.Slug)
			assert.Equal(t, identity.RoleAdmin, owner.Role)
			require.NotNil(t, owner.ShopID)
			assert.Equal(t, shop.ID, *owner.ShopID)
		}).
		Return(nil)

	service := newAuthService(userRepo, shopRepo, registrar, nil)
	resp, err := service.Register(context.Background(), RegisterRequest{
		ShopName: "Corner Store",
		Email:    "new@example.com",
		Password: "long-enough-pw",
		Name:     "New Owner",
	})

	require.NoError(t, err)
	assert.Equal(t, "ADMIN", resp.User.Role)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	registrar.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	_, err := service.Register(context.Background(), RegisterRequest{
		ShopName: "Corner Store",
		Email:    "taken@example.com",
		Password: "long-enough-pw",
		Name:     "New Owner",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_Register_DuplicateSlug(t *testing.T) {
	userRepo := new(MockUserRepository)
	shopRepo := new(MockShopRepository)
	userRepo.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	shopRepo.On("ExistsBySlug", mock.Anything, "corner-store").Return(true, nil)

	service := newAuthService(userRepo, shopRepo, new(MockRegistrar), nil)
	_, err := service.Register(context.Background(), RegisterRequest{
		ShopName: "Corner Store",
		Email:    "new@example.com",
		Password: "long-enough-pw",
		Name:     "New Owner",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

// =============================================================================
// Refresh
// =============================================================================

func TestAuthService_Refresh_RotatesAndRereadsUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "correct-horse")
	codec := testCodec()
	pair, err := codec.IssueTokenPair(user)
	require.NoError(t, err)

	// Role changed since the refresh token was issued; the new access token
	// must carry the current role from the database.
	require.NoError(t, user.ChangeRole(identity.RoleStaff))
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), codec, auth.NewPasswordHasher(), blacklist, zap.NewNop())

	resp, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "STAFF", resp.User.Role)

	claims, err := codec.VerifyAccessToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "STAFF", claims.Role)

	// The old refresh token is now revoked; a second use fails.
	_, err = service.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "correct-horse")
	codec := testCodec()
	pair, err := codec.IssueTokenPair(user)
	require.NoError(t, err)

	user.Deactivate()
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	service := NewAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), codec, auth.NewPasswordHasher(), nil, zap.NewNop())
	_, err = service.Refresh(context.Background(), pair.RefreshToken)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	service := newAuthService(new(MockUserRepository), new(MockShopRepository), new(MockRegistrar), nil)
	_, err := service.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
}

// =============================================================================
// ChangePassword
// =============================================================================

func TestAuthService_ChangePassword_RevokesSessions(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "old-password-1")
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	blacklist := auth.NewInMemoryTokenBlacklist()
	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), blacklist)

	err := service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-2",
	})
	require.NoError(t, err)

	assert.NoError(t, auth.NewPasswordHasher().Verify(user.PasswordHash, "new-password-2"))
	revoked, err := blacklist.IsUserRevoked(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	userRepo := new(MockUserRepository)
	user := activeUser(t, "old-password-1")
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	service := newAuthService(userRepo, new(MockShopRepository), new(MockRegistrar), nil)
	err := service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-2",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}
