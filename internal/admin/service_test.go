package admin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockRepo) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockRepo) UpdateUserStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *mockRepo) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardStats), args.Error(1)
}

func (m *mockRepo) InsertAuditLog(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{}) {
	m.Called(ctx, adminID, action, targetType, targetID, metadata)
}

func (m *mockRepo) ListAuditLogs(ctx context.Context, limit, offset int, filter *AuditLogFilter) ([]*AuditLog, int64, error) {
	args := m.Called(ctx, limit, offset, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*AuditLog), args.Get(1).(int64), args.Error(2)
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

func TestCreateStaffUserHashesPasswordAndAudits(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	adminID := uuid.New()
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "editor@globalpath.example" &&
			u.Role == models.RoleEditor &&
			u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != "swordfish-longenough"
	})).Return(nil)
	repo.On("InsertAuditLog", mock.Anything, adminID, "create_user", "user", mock.Anything, mock.Anything).Return()

	user, err := svc.CreateStaffUser(context.Background(), adminID, &CreateStaffRequest{
		Email:     "Editor@GlobalPath.example",
		Password:  "swordfish-longenough",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "editor",
	})
	require.NoError(t, err)
	assert.Equal(t, "editor@globalpath.example", user.Email)
	repo.AssertExpectations(t)
}

func TestCreateStaffUserEnforcesPasswordPolicy(t *testing.T) {
	repo := new(mockRepo)
	rows := []settings.Row{
		{Category: settings.CategorySecurity, Key: "passwordMinLength", Value: `16`},
	}
	svc := NewService(repo, newResolver(rows))

	_, err := svc.CreateStaffUser(context.Background(), uuid.New(), &CreateStaffRequest{
		Email:     "editor@globalpath.example",
		Password:  "too short",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "editor",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16 characters")
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestDeactivateSelfRejected(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	adminID := uuid.New()
	err := svc.DeactivateUser(context.Background(), adminID, adminID)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	repo.AssertNotCalled(t, "UpdateUserStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeactivateOtherUserAudits(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	adminID := uuid.New()
	targetID := uuid.New()
	repo.On("UpdateUserStatus", mock.Anything, targetID, false).Return(nil)
	repo.On("InsertAuditLog", mock.Anything, adminID, "deactivate_user", "user", targetID, (map[string]interface{})(nil)).Return()

	require.NoError(t, svc.DeactivateUser(context.Background(), adminID, targetID))
	repo.AssertExpectations(t)
}

func TestChangeRoleSelfDemotionRejected(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	adminID := uuid.New()
	err := svc.ChangeUserRole(context.Background(), adminID, adminID, models.RoleEditor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demote")
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	err := svc.ChangeUserRole(context.Background(), uuid.New(), uuid.New(), models.UserRole("superuser"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestGetDashboardStatsWithoutCache(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	repo.On("GetDashboardStats", mock.Anything).Return(&DashboardStats{
		AppointmentsToday:   4,
		PendingAppointments: 11,
		RevenueThisMonth:    185000,
		PublishedCountries:  8,
		NewInquiries:        3,
	}, nil)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.AppointmentsToday)
	assert.Equal(t, int64(185000), stats.RevenueThisMonth)
}

func TestListAuditLogsClampsLimit(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, newResolver([]settings.Row{}))

	repo.On("ListAuditLogs", mock.Anything, 50, 0, (*AuditLogFilter)(nil)).
		Return([]*AuditLog{}, int64(0), nil)

	_, _, err := svc.ListAuditLogs(context.Background(), 500, -3, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
