package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/jwtkeys"
	"github.com/globalpath/platform/pkg/middleware"
	"github.com/globalpath/platform/pkg/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret *string) error {
	return m.Called(ctx, id, secret).Error(0)
}

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) ListAll(ctx context.Context) ([]settings.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settings.Row), args.Error(1)
}

func newResolver(rows []settings.Row) *settings.Resolver {
	store := new(mockSettingsStore)
	store.On("ListAll", mock.Anything).Return(rows, nil)
	return settings.NewResolver(store)
}

func newKeyManager(t *testing.T) *jwtkeys.Manager {
	t.Helper()
	km, err := jwtkeys.NewManager(context.Background(), jwtkeys.Config{
		LegacySecret: "test-secret",
	})
	require.NoError(t, err)
	return km
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newKeyManager(t), newResolver([]settings.Row{}))

	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@globalpath.example",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	repo.On("GetUserByEmail", mock.Anything, "admin@globalpath.example").Return(user, nil)
	repo.On("UpdateLastLogin", mock.Anything, user.ID).Return(nil)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@globalpath.example",
		Password: "correct horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.PasswordHash)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	// Token should parse with the claims we issued.
	claims := &middleware.Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(resp.Token, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newKeyManager(t), newResolver([]settings.Row{}))

	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@globalpath.example",
		PasswordHash: hashPassword(t, "correct horse"),
		IsActive:     true,
	}
	repo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(user, nil)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@globalpath.example",
		Password: "battery staple",
	})

	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newKeyManager(t), newResolver([]settings.Row{}))

	user := &models.User{
		ID:           uuid.New(),
		PasswordHash: hashPassword(t, "pw"),
		IsActive:     false,
	}
	repo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(user, nil)

	_, err := svc.Login(context.Background(), &models.LoginRequest{Email: "x@y.z", Password: "pw"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestLoginRequiresTOTPWhenEnabled(t *testing.T) {
	repo := new(mockRepo)
	resolver := newResolver([]settings.Row{
		{Category: settings.CategorySecurity, Key: "enableTwoFactor", Value: `true`},
	})
	svc := NewService(repo, newKeyManager(t), resolver)

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: "a@b.c"})
	require.NoError(t, err)
	secret := key.Secret()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "a@b.c",
		PasswordHash: hashPassword(t, "pw"),
		IsActive:     true,
		TOTPSecret:   &secret,
	}
	repo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(user, nil)
	repo.On("UpdateLastLogin", mock.Anything, user.ID).Return(nil)

	// Missing code fails.
	_, err = svc.Login(context.Background(), &models.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two-factor")

	// A freshly generated code passes.
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "a@b.c",
		Password: "pw",
		TOTPCode: code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestChangePasswordEnforcesMinLength(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newKeyManager(t), newResolver([]settings.Row{
		{Category: settings.CategorySecurity, Key: "passwordMinLength", Value: `12`},
	}))

	user := &models.User{
		ID:           uuid.New(),
		PasswordHash: hashPassword(t, "old password"),
	}
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, &ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "short",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "12 characters")
}

func TestEnrollTOTPStoresSecret(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newKeyManager(t), newResolver([]settings.Row{}))

	user := &models.User{ID: uuid.New(), Email: "a@b.c"}
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("SetTOTPSecret", mock.Anything, user.ID, mock.AnythingOfType("*string")).Return(nil)

	enrollment, err := svc.EnrollTOTP(context.Background(), user.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.URL, "otpauth://")
	repo.AssertExpectations(t)
}
