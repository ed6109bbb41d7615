package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "traveltix:authz:owner:7:owner@example.com", Key("authz", "owner", "7", "owner@example.com"))
}

func TestGetMissAndHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)
	ctx := context.Background()

	mock.ExpectGet("traveltix:k").RedisNil()
	var v bool
	assert.ErrorIs(t, svc.Get(ctx, "traveltix:k", &v), ErrCacheMiss)

	mock.ExpectGet("traveltix:k").SetVal("true")
	require.NoError(t, svc.Get(ctx, "traveltix:k", &v))
	assert.True(t, v)

	mock.ExpectGet("traveltix:k").SetErr(errors.New("i/o timeout"))
	err := svc.Get(ctx, "traveltix:k", &v)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMarshalsJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectSet("traveltix:k", []byte("false"), time.Minute).SetVal("OK")
	require.NoError(t, svc.Set(context.Background(), "traveltix:k", false, time.Minute))

	mock.ExpectSet("traveltix:k", []byte("true"), time.Minute).SetErr(errors.New("READONLY"))
	assert.Error(t, svc.Set(context.Background(), "traveltix:k", true, time.Minute))

	assert.NoError(t, mock.ExpectationsWereMet())
}
