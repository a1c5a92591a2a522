package repository

import (
	"context"

	"github.com/geofusion-service/internal/domain"
)

// EntityRepository - чтение приватных точек интереса
type EntityRepository interface {
	// GetByTypes возвращает записи для списка коллекций одним запросом
	GetByTypes(ctx context.Context, collections []string) ([]*domain.CustomEntity, error)
}

// EntityStoreRepository - само хранилище (PostgreSQL), отдает GET /entities
type EntityStoreRepository interface {
	EntityRepository

	// Upsert сохраняет запись в коллекцию
	Upsert(ctx context.Context, collection string, entity *domain.CustomEntity) error

	// Delete удаляет запись
	Delete(ctx context.Context, id string) error
}
