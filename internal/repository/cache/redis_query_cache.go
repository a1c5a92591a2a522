package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
)

const queryKeyPrefix = "overpass:"

type redisQueryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisQueryCache - общий для нескольких процессов GeoQueryCache в redis
func NewRedisQueryCache(r *Redis, ttl time.Duration) repository.QueryCacheRepository {
	return &redisQueryCache{
		client: r.Client(),
		ttl:    ttl,
		logger: r.logger,
	}
}

// QueryKey - ключ redis, хеш от литерального текста запроса
func QueryKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return queryKeyPrefix + hex.EncodeToString(sum[:])
}

func (r *redisQueryCache) Get(ctx context.Context, query string) (*domain.GeoQueryResult, bool, error) {
	key := QueryKey(query)
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, false, fmt.Errorf("%w: get: %v", errors.ErrCacheError, err)
	}

	var result domain.GeoQueryResult
	if err := json.Unmarshal(val, &result); err != nil {
		r.logger.Warn("Corrupted cache entry, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return &result, true, nil
}

func (r *redisQueryCache) Set(ctx context.Context, query string, result *domain.GeoQueryResult) error {
	if result == nil {
		return nil
	}
	key := QueryKey(query)
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", errors.ErrCacheError, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: set: %v", errors.ErrCacheError, err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", r.ttl))
	return nil
}

// Len неизвестен для общего redis
func (r *redisQueryCache) Len() int {
	return -1
}
