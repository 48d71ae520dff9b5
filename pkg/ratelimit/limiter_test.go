package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/pkg/config"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		WindowSeconds:  60,
		DefaultLimit:   120,
		DefaultBurst:   40,
		AnonymousLimit: 60,
		AnonymousBurst: 20,
		RedisPrefix:    "rate-limit",
		EndpointOverrides: map[string]config.EndpointRateLimitConfig{
			"POST:/api/v1/auth/login": {
				AuthenticatedLimit: 10,
				AuthenticatedBurst: 2,
				AnonymousLimit:     5,
				AnonymousBurst:     1,
				WindowSeconds:      300,
			},
		},
	}
}

func TestRuleForUsesDefaults(t *testing.T) {
	limiter := NewLimiter(nil, testConfig())

	rule := limiter.RuleFor("GET:/api/v1/countries", IdentityAuthenticated)

	assert.Equal(t, 120, rule.Limit)
	assert.Equal(t, 40, rule.Burst)
	assert.Equal(t, time.Minute, rule.Window)
}

func TestRuleForAppliesAnonymousDefaults(t *testing.T) {
	limiter := NewLimiter(nil, testConfig())

	rule := limiter.RuleFor("GET:/api/v1/countries", IdentityAnonymous)

	assert.Equal(t, 60, rule.Limit)
	assert.Equal(t, 20, rule.Burst)
}

func TestRuleForAppliesEndpointOverride(t *testing.T) {
	limiter := NewLimiter(nil, testConfig())

	authed := limiter.RuleFor("POST:/api/v1/auth/login", IdentityAuthenticated)
	assert.Equal(t, 10, authed.Limit)
	assert.Equal(t, 2, authed.Burst)
	assert.Equal(t, 5*time.Minute, authed.Window)

	anon := limiter.RuleFor("POST:/api/v1/auth/login", IdentityAnonymous)
	assert.Equal(t, 5, anon.Limit)
	assert.Equal(t, 1, anon.Burst)
}

func TestAllowSkipsRedisWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	// A nil client proves the disabled path never touches Redis.
	limiter := NewLimiter(nil, cfg)

	result, err := limiter.Allow(context.Background(), "GET:/api/v1/countries", "ip:10.0.0.1",
		Rule{Limit: 60, Burst: 20, Window: time.Minute}, IdentityAnonymous)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, "ip:10.0.0.1", result.IdentityKey)
}

func TestAllowSkipsRedisWhenRuleUnlimited(t *testing.T) {
	limiter := NewLimiter(nil, testConfig())

	result, err := limiter.Allow(context.Background(), "GET:/healthz", "user:abc",
		Rule{Limit: 0}, IdentityAuthenticated)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
