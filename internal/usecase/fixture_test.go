package usecase_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/repository/cache"
	"github.com/geofusion-service/internal/repository/memory"
	"github.com/geofusion-service/internal/usecase"
)

// Paris, 4e arrondissement
var parisCenter = domain.LatLon{Lat: 48.85, Lon: 2.35}

// 1 градус широты по haversine с R=6 371 000 м
const metersPerLatDegree = 111194.93

func north(p domain.LatLon, meters float64) domain.LatLon {
	return domain.LatLon{Lat: p.Lat + meters/metersPerLatDegree, Lon: p.Lon}
}

func memoryRenderFactory() usecase.RenderFactory {
	return usecase.RenderFactory{
		NewFeatureSource: memory.NewFeatureSource,
		NewClusterSource: memory.NewClusterSource,
		NewMapView:       memory.NewMapView,
	}
}

type fixture struct {
	geo      *MockGeoDataRepository
	entities *MockEntityRepository
	places   *MockPlaceRepository
	cache    *usecase.GeoQueryCache
	sessions *usecase.SessionUseCase
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		geo:      new(MockGeoDataRepository),
		entities: new(MockEntityRepository),
		places:   new(MockPlaceRepository),
		clock:    newClock(),
	}
	logger := zap.NewNop()
	f.cache = usecase.NewGeoQueryCache(cache.NewMemoryQueryCache(0), f.geo, logger)
	fusion := usecase.NewFusionUseCase(f.cache, f.entities, usecase.FusionConfig{
		EntityTimeout: time.Second,
		FitPadding:    50,
	}, logger)
	f.sessions = usecase.NewSessionUseCase(fusion, f.places, memoryRenderFactory(), usecase.SessionConfig{
		FilterCooldown:   3 * time.Second,
		DefaultRadiusKm:  1,
		MatchTolerance:   1e-5,
		TagMemorySize:    64,
		HitToleranceM:    15,
		ClusterDistanceM: 40,
	}, logger).WithClock(f.clock.Now)
	return f
}

// sessionAt - новая сессия с позицией пользователя
func (f *fixture) sessionAt(t *testing.T, pos domain.LatLon) *usecase.Session {
	t.Helper()
	s := f.sessions.Create()
	if _, err := f.sessions.SetUserPosition(context.Background(), s.ID, pos.Lat, pos.Lon); err != nil {
		t.Fatalf("set position: %v", err)
	}
	return s
}

func node(id int64, p domain.LatLon, tags map[string]string) domain.RawElement {
	return domain.RawElement{Type: domain.ElementNode, ID: id, Lat: p.Lat, Lon: p.Lon, Tags: tags}
}

func findFeature(features []*domain.RenderFeature, id string) *domain.RenderFeature {
	for _, f := range features {
		if f.ID == id {
			return f
		}
	}
	return nil
}
