package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListAll(ctx context.Context) ([]Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Row), args.Error(1)
}

func TestResolveWithNoRowsReturnsTotalDefaults(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{}, nil)

	resolver := NewResolver(store)
	resolved := resolver.Settings(context.Background())

	// Every category carries a value even with an empty store.
	assert.Equal(t, "GlobalPath Education", resolved.General.SiteName)
	assert.Equal(t, 587, resolved.Email.SMTPPort)
	assert.Equal(t, "usd", resolved.Payments.Currency)
	assert.Equal(t, 10, resolved.Storage.MaxFileSizeMB)
	assert.NotEmpty(t, resolved.Storage.AllowedFileTypes)
	assert.Equal(t, 8, resolved.Security.PasswordMinLength)
	assert.True(t, resolved.Notifications.EnableEmailNotifications)
	assert.Equal(t, "#0b5fff", resolved.Branding.PrimaryColor)
}

func TestResolveMergesPersistedRowsWithDeclaredTypes(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{
		{Category: CategoryGeneral, Key: "siteName", Value: `"Northbound Study"`},
		{Category: CategoryEmail, Key: "smtpPort", Value: `465`},
		{Category: CategoryEmail, Key: "smtpSecure", Value: `true`},
		{Category: CategoryStorage, Key: "allowedFileTypes", Value: `[".png",".pdf"]`},
		{Category: CategoryPayments, Key: "enableStripe", Value: `true`},
		{Category: CategoryPayments, Key: "consultationFee", Value: `49.5`},
	}, nil)

	resolver := NewResolver(store)
	resolved := resolver.Settings(context.Background())

	assert.Equal(t, "Northbound Study", resolved.General.SiteName)
	assert.Equal(t, 465, resolved.Email.SMTPPort)
	assert.True(t, resolved.Email.SMTPSecure)
	assert.Equal(t, []string{".png", ".pdf"}, resolved.Storage.AllowedFileTypes)
	assert.True(t, resolved.Payments.EnableStripe)
	assert.Equal(t, 49.5, resolved.Payments.ConsultationFee)
}

func TestResolveFallsBackToRawStringOnInvalidJSON(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{
		// Not valid JSON: a bare hostname written by an older admin UI.
		{Category: CategoryEmail, Key: "smtpHost", Value: `smtp.mailhost.example`},
		// Garbage in a typed field keeps the default instead of corrupting the type.
		{Category: CategoryEmail, Key: "smtpPort", Value: `not-a-number`},
	}, nil)

	resolver := NewResolver(store)
	resolved := resolver.Settings(context.Background())

	assert.Equal(t, "smtp.mailhost.example", resolved.Email.SMTPHost)
	assert.Equal(t, 587, resolved.Email.SMTPPort)
}

func TestResolveIgnoresUnknownCategoriesAndKeys(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{
		{Category: Category("experimental"), Key: "flag", Value: `true`},
		{Category: CategoryGeneral, Key: "notAKnownField", Value: `"x"`},
	}, nil)

	resolver := NewResolver(store)
	resolved := resolver.Settings(context.Background())

	// Defaults survive intact.
	assert.Equal(t, "GlobalPath Education", resolved.General.SiteName)
}

func TestResolveCachesWithinWindow(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{}, nil).Once()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	resolver := NewResolver(store, WithClock(func() time.Time { return now }))

	first := resolver.Settings(context.Background())
	second := resolver.Settings(context.Background())

	assert.Same(t, first, second)
	store.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestResolveRefreshesAfterWindowElapses(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{}, nil).Twice()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	resolver := NewResolver(store, WithClock(func() time.Time { return now }))

	resolver.Settings(context.Background())
	now = now.Add(DefaultCacheTTL + time.Second)
	resolver.Settings(context.Background())

	store.AssertNumberOfCalls(t, "ListAll", 2)
}

func TestClearCacheForcesFreshRead(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]Row{}, nil).Twice()

	resolver := NewResolver(store)

	resolver.Settings(context.Background())
	resolver.ClearCache()
	resolver.Settings(context.Background())

	store.AssertNumberOfCalls(t, "ListAll", 2)
}

func TestSettingsNeverFails(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))

	resolver := NewResolver(store)
	resolved := resolver.Settings(context.Background())

	require.NotNil(t, resolved)
	assert.Equal(t, "GlobalPath Education", resolved.General.SiteName)
}

func TestCategoryHelpersPropagateStoreError(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))

	resolver := NewResolver(store)

	_, err := resolver.EmailSettings(context.Background())
	assert.Error(t, err)

	_, err = resolver.StorageSettings(context.Background())
	assert.Error(t, err)

	_, err = resolver.PaymentSettings(context.Background())
	assert.Error(t, err)
}

func TestErrorResolutionIsNotCached(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	store.On("ListAll", mock.Anything).Return([]Row{
		{Category: CategoryGeneral, Key: "siteName", Value: `"Recovered"`},
	}, nil).Once()

	resolver := NewResolver(store)

	_, err := resolver.GeneralSettings(context.Background())
	require.Error(t, err)

	general, err := resolver.GeneralSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Recovered", general.SiteName)
}
