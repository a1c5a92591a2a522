package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// GeoQueryCache мемоизирует ответы open-geodata сервиса по литеральному тексту запроса.
// Одновременные промахи по одному ключу выполняют один сетевой запрос.
// Ошибки не кешируются, повтор - только по действию пользователя.
type GeoQueryCache struct {
	store  repository.QueryCacheRepository
	source repository.GeoDataRepository
	group  singleflight.Group
	logger *zap.Logger
}

func NewGeoQueryCache(
	store repository.QueryCacheRepository,
	source repository.GeoDataRepository,
	logger *zap.Logger,
) *GeoQueryCache {
	return &GeoQueryCache{
		store:  store,
		source: source,
		logger: logger,
	}
}

// Get - попадание или промах; ошибка хранилища считается промахом
func (c *GeoQueryCache) Get(ctx context.Context, query string) (*domain.GeoQueryResult, bool) {
	result, ok, err := c.store.Get(ctx, query)
	if err != nil {
		c.logger.Warn("Query cache read failed, treating as miss", zap.Error(err))
		return nil, false
	}
	return result, ok
}

func (c *GeoQueryCache) Set(ctx context.Context, query string, result *domain.GeoQueryResult) {
	if err := c.store.Set(ctx, query, result); err != nil {
		c.logger.Warn("Query cache write failed", zap.Error(err))
	}
}

// Resolve возвращает результат из кеша или выполняет запрос; hit=true при попадании
func (c *GeoQueryCache) Resolve(ctx context.Context, query string) (*domain.GeoQueryResult, bool, error) {
	if result, ok := c.Get(ctx, query); ok {
		c.logger.Debug("Query cache hit", zap.Int("element_count", result.Len()))
		return result, true, nil
	}

	v, err, shared := c.group.Do(query, func() (interface{}, error) {
		result, err := c.source.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = &domain.GeoQueryResult{}
		}
		c.Set(ctx, query, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		c.logger.Debug("Query shared with in-flight request")
	}
	return v.(*domain.GeoQueryResult), false, nil
}

// Len - количество записей хранилища, -1 если неизвестно
func (c *GeoQueryCache) Len() int {
	return c.store.Len()
}
