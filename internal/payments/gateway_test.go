package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/internal/settings"
)

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

func razorpaySign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	client := NewRazorpayClient("rzp_test_key", "topsecret")

	good := razorpaySign("topsecret", "order_1", "pay_1")
	assert.True(t, client.VerifyPaymentSignature("order_1", "pay_1", good))

	// Tampered payment ID
	assert.False(t, client.VerifyPaymentSignature("order_1", "pay_2", good))

	// Signature produced with the wrong secret
	bad := razorpaySign("wrong", "order_1", "pay_1")
	assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", bad))
}

func TestGatewayFactoryDisabledReturnsNil(t *testing.T) {
	store := new(mockSettingsStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{
		// Credentials present but the gateway is not enabled.
		{Category: settings.CategoryPayments, Key: "stripeSecretKey", Value: `"sk_test_x"`},
		{Category: settings.CategoryPayments, Key: "razorpayKeyId", Value: `"rzp_x"`},
		{Category: settings.CategoryPayments, Key: "razorpayKeySecret", Value: `"s"`},
	}, nil)

	factory := NewGatewayFactory(settings.NewResolver(store))

	stripeClient, err := factory.Stripe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stripeClient)

	rzClient, err := factory.Razorpay(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rzClient)
}

func TestGatewayFactoryEnabledBuildsClients(t *testing.T) {
	store := new(mockSettingsStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{
		{Category: settings.CategoryPayments, Key: "enableStripe", Value: `true`},
		{Category: settings.CategoryPayments, Key: "stripeSecretKey", Value: `"sk_test_x"`},
		{Category: settings.CategoryPayments, Key: "enableRazorpay", Value: `true`},
		{Category: settings.CategoryPayments, Key: "razorpayKeyId", Value: `"rzp_x"`},
		{Category: settings.CategoryPayments, Key: "razorpayKeySecret", Value: `"s"`},
		{Category: settings.CategoryPayments, Key: "consultationFee", Value: `49.5`},
		{Category: settings.CategoryPayments, Key: "currency", Value: `"inr"`},
	}, nil)

	factory := NewGatewayFactory(settings.NewResolver(store))

	stripeClient, err := factory.Stripe(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stripeClient)

	rzClient, err := factory.Razorpay(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rzClient)

	amount, currency := factory.Pricing(context.Background())
	assert.Equal(t, int64(4950), amount)
	assert.Equal(t, "inr", currency)
}

func TestGatewayFactoryDegradesToEnvironmentOnStoreError(t *testing.T) {
	store := new(mockSettingsStore)
	store.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))

	factory := NewGatewayFactory(settings.NewResolver(store))

	// Gateways default to disabled in the environment fallback, so a store
	// outage yields "not configured" rather than a hard error.
	stripeClient, err := factory.Stripe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stripeClient)
}

func TestGatewayFactoryMissingCredentialsReturnsNil(t *testing.T) {
	store := new(mockSettingsStore)
	store.On("ListAll", mock.Anything).Return([]settings.Row{
		{Category: settings.CategoryPayments, Key: "enableStripe", Value: `true`},
		// No secret key persisted.
	}, nil)

	factory := NewGatewayFactory(settings.NewResolver(store))

	stripeClient, err := factory.Stripe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stripeClient)
}
