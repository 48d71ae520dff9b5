package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return &Client{Client: db}, mock
}

func TestGetString(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("country:canada").SetVal(`{"name":"Canada"}`)

	val, err := client.GetString(context.Background(), "country:canada")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Canada"}`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStringMiss(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("country:missing").RedisNil()

	_, err := client.GetString(context.Background(), "country:missing")
	assert.ErrorIs(t, err, goredis.Nil)
}

func TestSetWithExpiration(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectSet("menu:public", "[]", 15*time.Minute).SetVal("OK")

	err := client.SetWithExpiration(context.Background(), "menu:public", "[]", 15*time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectExists("blog:study-in-germany").SetVal(1)

	ok, err := client.Exists(context.Background(), "blog:study-in-germany")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRetryableGetRecoversFromTransientError(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("dashboard:stats").SetErr(errors.New("i/o timeout"))
	mock.ExpectGet("dashboard:stats").SetVal(`{"new_inquiries":3}`)

	val, err := client.RetryableGet(context.Background(), "dashboard:stats")
	require.NoError(t, err)
	assert.Equal(t, `{"new_inquiries":3}`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableGetDoesNotRetryMiss(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectGet("blog:missing").RedisNil()

	_, err := client.RetryableGet(context.Background(), "blog:missing")
	assert.ErrorIs(t, err, goredis.Nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableSet(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectSet("menu:public", "[]", 15*time.Minute).SetVal("OK")

	err := client.RetryableSet(context.Background(), "menu:public", "[]", 15*time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableExpire(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectExpire("dashboard:stats", time.Hour).SetVal(true)

	err := client.RetryableExpire(context.Background(), "dashboard:stats", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryableDelete(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectDel("countries:published", "country:canada").SetVal(2)

	err := client.RetryableDelete(context.Background(), "countries:published", "country:canada")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRedisRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"key miss", goredis.Nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"pool timeout", errors.New("redis: connection pool timeout"), true},
		{"loading dataset", errors.New("LOADING Redis is loading the dataset in memory"), true},
		{"wrong type", errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"), false},
		{"bad auth", errors.New("NOAUTH Authentication required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRedisRetryable(tt.err))
		})
	}
}
