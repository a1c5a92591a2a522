package repository

import (
	"context"

	"github.com/geofusion-service/internal/domain"
)

// QueryCacheRepository - хранилище GeoQueryCache, ключ - литеральный текст запроса
type QueryCacheRepository interface {
	// Get возвращает (result, true, nil) при попадании
	Get(ctx context.Context, query string) (*domain.GeoQueryResult, bool, error)

	// Set сохраняет результат
	Set(ctx context.Context, query string, result *domain.GeoQueryResult) error

	// Len - количество записей (для redis -1, неизвестно)
	Len() int
}
