// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "speaker:audio:"

// Cache remembers synthesized audio for a normalized utterance so repeated
// replies skip the synthesis call.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// CacheKey is stable for a character, language and normalized text.
func CacheKey(character, language, text string) string {
	sum := sha256.Sum256([]byte(character + "|" + language + "|" + text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

type redisCache struct {
	logger commons.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client. A zero ttl keeps entries until evicted.
func NewRedisCache(logger commons.Logger, client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{logger: logger, client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("speaker-cache: get %s: %w", key, err)
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, data []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("speaker-cache: set %s: %w", key, err)
	}
	c.logger.Debugf("speaker-cache: stored %d bytes under %s", len(data), key)
	return nil
}
