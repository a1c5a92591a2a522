package repository

import (
	"context"

	"github.com/geofusion-service/internal/domain"
)

// PlaceRepository - поиск места по названию (Nominatim)
type PlaceRepository interface {
	// Search возвращает первый результат или ErrPlaceNotFound
	Search(ctx context.Context, query string, lang string) (*domain.Place, error)
}
