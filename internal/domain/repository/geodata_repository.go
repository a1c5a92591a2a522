package repository

import (
	"context"

	"github.com/geofusion-service/internal/domain"
)

// GeoDataRepository - внешний open-geodata сервис (Overpass)
type GeoDataRepository interface {
	// Query выполняет полностью отрендеренный запрос.
	// Ошибки: ErrTimeout при превышении лимита, ErrNetwork при сбое транспорта.
	// Некорректный ответ возвращается как пустой результат.
	Query(ctx context.Context, query string) (*domain.GeoQueryResult, error)
}
