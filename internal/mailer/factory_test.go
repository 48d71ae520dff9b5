package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/internal/settings"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListAll(ctx context.Context) ([]settings.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settings.Row), args.Error(1)
}

func TestFactoryBuildsClientFromPersistedSettings(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{
		{Category: settings.CategoryEmail, Key: "smtpHost", Value: `"mail.internal"`},
		{Category: settings.CategoryEmail, Key: "smtpPort", Value: `2525`},
		{Category: settings.CategoryEmail, Key: "fromEmail", Value: `"team@globalpath.example"`},
	}, nil)

	factory := NewFactory(settings.NewResolver(store))
	client := factory.Client(context.Background())

	require.NotNil(t, client)
	assert.Equal(t, "mail.internal:2525", client.addr())
	assert.Contains(t, client.from(), "team@globalpath.example")
}

func TestFactoryFallsBackToEnvironmentOnStoreError(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))

	factory := NewFactory(settings.NewResolver(store))
	client := factory.Client(context.Background())

	// Email always builds, even when the settings store is down.
	require.NotNil(t, client)
	assert.NotEmpty(t, client.fromEmail)
}

func TestFactorySenderReusesBreakerAcrossRebuilds(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{}, nil)

	factory := NewFactory(settings.NewResolver(store))

	first := factory.Sender(context.Background()).(*ResilientSender)
	second := factory.Sender(context.Background()).(*ResilientSender)

	assert.Same(t, first.breaker, second.breaker)
}

func TestFactorySenderSafeForConcurrentUse(t *testing.T) {
	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{}, nil)

	factory := NewFactory(settings.NewResolver(store))

	senders := make([]*ResilientSender, 8)
	var wg sync.WaitGroup
	for i := range senders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			senders[i] = factory.Sender(context.Background()).(*ResilientSender)
		}(i)
	}
	wg.Wait()

	for _, s := range senders {
		require.NotNil(t, s)
		assert.Same(t, senders[0].breaker, s.breaker)
	}
}

func TestIsEmailRetryable(t *testing.T) {
	assert.False(t, isEmailRetryable(nil))
	assert.True(t, isEmailRetryable(errors.New("dial tcp: i/o timeout")))
	assert.True(t, isEmailRetryable(errors.New("421 service not available")))
	assert.False(t, isEmailRetryable(errors.New("550 mailbox unavailable")))
	assert.False(t, isEmailRetryable(errors.New("smtp auth failed")))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", maskEmail("john@example.com"))
	assert.Equal(t, "***", maskEmail("not-an-email"))
}
