package utils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/business-directory-backend/config"
)

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	client, err := NewRedisClient(ctx, &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(ctx, &config.Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(ctx, &config.Config{RedisAddr: addr})
	assert.Error(t, err)
}
