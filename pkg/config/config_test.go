package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEndpointRateLimits(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENDPOINTS", `{
		"POST:/api/v1/auth/login": {
			"authenticated_limit": 10,
			"authenticated_burst": 2,
			"anonymous_limit": 5,
			"anonymous_burst": 1,
			"window_seconds": 300
		}
	}`)

	cfg, err := Load("api")
	require.NoError(t, err)

	override, ok := cfg.RateLimit.EndpointOverrides["POST:/api/v1/auth/login"]
	require.True(t, ok)
	assert.Equal(t, 10, override.AuthenticatedLimit)
	assert.Equal(t, 5, override.AnonymousLimit)
	assert.Equal(t, 300, override.WindowSeconds)
}

func TestLoadRejectsMalformedEndpointRateLimits(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENDPOINTS", `{not json`)

	_, err := Load("api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_ENDPOINTS")
}

func TestRateLimitWindowDefaults(t *testing.T) {
	cfg, err := Load("api")
	require.NoError(t, err)

	assert.Nil(t, cfg.RateLimit.EndpointOverrides)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
}
