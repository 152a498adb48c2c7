// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	key := CacheKey("Amiya", "zh", "你好")

	assert.True(t, strings.HasPrefix(key, cacheKeyPrefix))
	assert.Len(t, strings.TrimPrefix(key, cacheKeyPrefix), 64)
	assert.Equal(t, key, CacheKey("Amiya", "zh", "你好"))
	assert.NotEqual(t, key, CacheKey("Amiya", "en", "你好"))
	assert.NotEqual(t, key, CacheKey("Kal'tsit", "zh", "你好"))
	assert.NotEqual(t, key, CacheKey("Amiya", "zh", "你好。"))
}

func TestRedisCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(commons.NewNopLogger(), client, time.Hour)
	key := CacheKey("Amiya", "zh", "hit")

	mock.ExpectGet(key).SetVal("audio")

	data, ok, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("audio"), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(commons.NewNopLogger(), client, time.Hour)
	key := CacheKey("Amiya", "zh", "miss")

	mock.ExpectGet(key).RedisNil()

	data, ok, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(commons.NewNopLogger(), client, time.Hour)
	key := CacheKey("Amiya", "zh", "down")

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	_, ok, err := cache.Get(context.Background(), key)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(commons.NewNopLogger(), client, 30*time.Minute)
	key := CacheKey("Amiya", "zh", "store")
	data := []byte("RIFFdata")

	mock.ExpectSet(key, data, 30*time.Minute).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), key, data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(commons.NewNopLogger(), client, time.Minute)
	key := CacheKey("Amiya", "zh", "store")

	mock.ExpectSet(key, []byte("x"), time.Minute).SetErr(errors.New("readonly"))

	assert.Error(t, cache.Set(context.Background(), key, []byte("x")))
}

func TestRedisCache_NilClient(t *testing.T) {
	cache := NewRedisCache(commons.NewNopLogger(), nil, time.Minute)

	_, ok, err := cache.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Set(context.Background(), "k", []byte("v")))
}
