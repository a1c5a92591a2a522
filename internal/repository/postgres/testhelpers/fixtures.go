package testhelpers

import (
	"context"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// EntityFixture - запись и коллекция, в которую она кладется
type EntityFixture struct {
	Collection string
	Entity     *domain.CustomEntity
}

// DefaultEntityFixtures - несколько точек вокруг Notre-Dame
func DefaultEntityFixtures() []EntityFixture {
	return []EntityFixture{
		{
			Collection: "churchs",
			Entity: &domain.CustomEntity{
				ID:     "church-1",
				Type:   "church",
				Name:   "Notre-Dame de Paris",
				Coords: domain.LatLon{Lat: 48.852968, Lon: 2.349902},
				Tags:   map[string]string{"denomination": "catholic", "service_times": "Su 10:00"},
			},
		},
		{
			Collection: "bakerys",
			Entity: &domain.CustomEntity{
				ID:     "bakery-1",
				Type:   "bakery",
				Name:   "Boulangerie du Parvis",
				Coords: domain.LatLon{Lat: 48.853500, Lon: 2.348000},
				Tags:   map[string]string{"opening_hours": "Mo-Sa 07:00-20:00"},
			},
		},
		{
			Collection: "cheeses",
			Entity: &domain.CustomEntity{
				ID:     "cheese-1",
				Type:   "cheese",
				Name:   "Fromagerie de la Cité",
				Coords: domain.LatLon{Lat: 48.854100, Lon: 2.347200},
			},
		},
	}
}

// LoadEntityFixtures сохраняет записи через репозиторий
func LoadEntityFixtures(ctx context.Context, repo repository.EntityStoreRepository, fixtures []EntityFixture) error {
	for _, f := range fixtures {
		if err := repo.Upsert(ctx, f.Collection, f.Entity); err != nil {
			return err
		}
	}
	return nil
}
