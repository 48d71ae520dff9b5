package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("development"))
	assert.NotNil(t, Get())

	require.NoError(t, Init("production"))
	assert.NotNil(t, Get())
}

func TestGetWithoutInit(t *testing.T) {
	log = nil
	assert.NotNil(t, Get())
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestWithContext(t *testing.T) {
	require.NoError(t, Init("development"))

	ctx := ContextWithCorrelationID(context.Background(), "req-1")
	assert.NotNil(t, WithContext(ctx))
	assert.NotNil(t, WithContext(context.Background()))
}
