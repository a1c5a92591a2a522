package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/usecase"
)

func layerFeatures(t *testing.T, s *usecase.Session, name string) []*domain.RenderFeature {
	t.Helper()
	l, ok := s.Render.Layer(name)
	require.True(t, ok)
	return l.Features.Features()
}

func TestFusion_ChurchWithinRadius(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	near := north(parisCenter, 500)
	far := north(parisCenter, 2000)
	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		node(1, near, map[string]string{"amenity": "place_of_worship", "name": "Saint-Merri"}),
		node(2, far, map[string]string{"amenity": "place_of_worship"}),
	}}, nil).Once()
	f.entities.On("GetByTypes", mock.Anything, []string{"churchs"}).Return([]*domain.CustomEntity{}, nil).Once()

	result, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerChurch)
	require.NoError(t, err)
	assert.True(t, result.Published)
	assert.False(t, result.CacheHit)
	assert.Equal(t, 2, result.FeatureCount)
	assert.Equal(t, 1, result.VisibleCount)
	assert.Contains(t, result.Query, "around:1000,48.850000,2.350000")

	features := layerFeatures(t, s, domain.LayerChurch)
	require.Len(t, features, 2)

	nearF := findFeature(features, "node/1")
	require.NotNil(t, nearF)
	assert.True(t, nearF.Visible)
	assert.InDelta(t, 500, nearF.DistanceM, 1)

	farF := findFeature(features, "node/2")
	require.NotNil(t, farF)
	assert.False(t, farF.Visible)
	assert.Equal(t, "Église", farF.Tags["name"], "nameless features get the layer fallback")

	church, _ := s.Render.Layer(domain.LayerChurch)
	assert.Equal(t, 2, church.Clusters.Len())

	assert.Equal(t, []string{domain.LayerChurch}, s.Controller.ActiveLayers())
	assert.Equal(t, domain.LayerChurch, s.Controller.Selected())

	view := s.Render.View().State()
	require.NotNil(t, view.Extent)
	assert.Equal(t, [4]float64{50, 50, 50, 50}, view.Padding)
	assert.Equal(t, domain.LayerChurch, view.Layer)

	f.geo.AssertExpectations(t)
	f.entities.AssertExpectations(t)
}

func TestFusion_ShowTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		{
			Type: domain.ElementWay, ID: 10,
			Geometry: coords([2]float64{2.349, 48.849}, [2]float64{2.351, 48.849}, [2]float64{2.351, 48.851}, [2]float64{2.349, 48.849}),
			Tags:     map[string]string{"natural": "water", "name": "Bassin"},
		},
		{
			Type: domain.ElementWay, ID: 11,
			Geometry: coords([2]float64{2.348, 48.85}, [2]float64{2.352, 48.852}),
			Tags:     map[string]string{"waterway": "canal"},
		},
	}}, nil).Once()
	f.entities.On("GetByTypes", mock.Anything, []string{"waters"}).Return([]*domain.CustomEntity{}, nil)

	first, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerWater)
	require.NoError(t, err)
	firstFeatures := layerFeatures(t, s, domain.LayerWater)

	second, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerWater)
	require.NoError(t, err)
	secondFeatures := layerFeatures(t, s, domain.LayerWater)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Query, second.Query)
	// polygon + icon anchor + line
	require.Len(t, firstFeatures, 3)
	require.Len(t, secondFeatures, len(firstFeatures))
	for i := range firstFeatures {
		assert.Equal(t, firstFeatures[i].ID, secondFeatures[i].ID)
		assert.Equal(t, firstFeatures[i].Tags, secondFeatures[i].Tags)
	}
	assert.Equal(t, []string{domain.LayerWater}, s.Controller.ActiveLayers())
	f.geo.AssertNumberOfCalls(t, "Query", 1)
}

func TestFusion_NetworkFailureKeepsPublishedState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		node(1, north(parisCenter, 100), map[string]string{"amenity": "restaurant", "name": "Le Marais"}),
	}}, nil).Once()
	f.geo.On("Query", mock.Anything, mock.Anything).Return(nil, errors.ErrNetwork).Once()
	f.entities.On("GetByTypes", mock.Anything, mock.Anything).Return([]*domain.CustomEntity{}, nil)

	_, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerRestaurant)
	require.NoError(t, err)
	before := layerFeatures(t, s, domain.LayerRestaurant)
	require.Len(t, before, 1)

	_, err = f.sessions.ApplyFilter(ctx, s.ID, domain.LayerRestaurant, 2)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNetwork))

	after := layerFeatures(t, s, domain.LayerRestaurant)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Tags, after[0].Tags)
	assert.True(t, s.Controller.IsActive(domain.LayerRestaurant))
	assert.Equal(t, 1, f.cache.Len(), "failed query is not cached")
}

func TestFusion_EntityFailureDegradesToOpenData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		node(1, north(parisCenter, 100), map[string]string{"tourism": "hotel", "name": "Hôtel de Ville"}),
	}}, nil)
	f.entities.On("GetByTypes", mock.Anything, []string{"hotels"}).Return(nil, errors.ErrEntityStore)

	result, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerHotel)
	require.NoError(t, err)
	assert.True(t, result.Published)
	assert.Equal(t, 0, result.EntityCount)
	assert.Equal(t, 1, result.VisibleCount)
	assert.Equal(t, "Hôtel de Ville", layerFeatures(t, s, domain.LayerHotel)[0].Tags["name"])
}

func TestFusion_NoPositionIsNoop(t *testing.T) {
	f := newFixture(t)
	s := f.sessions.Create()

	result, err := f.sessions.ShowLayer(context.Background(), s.ID, domain.LayerGreen)
	require.NoError(t, err)
	assert.False(t, result.Published)
	assert.Equal(t, usecase.SkipReasonNoPosition, result.SkipReason)
	assert.False(t, s.Controller.IsActive(domain.LayerGreen))
	f.geo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
	f.entities.AssertNotCalled(t, "GetByTypes", mock.Anything, mock.Anything)
}

func TestFusion_FoodUmbrellaBatchesEntityTypes(t *testing.T) {
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{}, nil)
	f.entities.On("GetByTypes", mock.Anything, mock.MatchedBy(func(collections []string) bool {
		return len(collections) == len(domain.FoodSubtypes) &&
			collections[0] == "bakerys" &&
			collections[len(collections)-1] == "bakery_pastrys"
	})).Return([]*domain.CustomEntity{}, nil).Once()

	result, err := f.sessions.ShowLayer(context.Background(), s.ID, domain.LayerFood)
	require.NoError(t, err)
	assert.True(t, result.Published)
	assert.Equal(t, 0, result.FeatureCount)
	assert.Nil(t, s.Render.View().State().Extent, "no fit without features")
	f.entities.AssertNumberOfCalls(t, "GetByTypes", 1)
}

func TestFusion_CustomEntities(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	osmNode := north(parisCenter, 200)
	customOnly := north(parisCenter, 300)
	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		node(1, osmNode, map[string]string{"amenity": "restaurant", "name": "OSM name", "cuisine": "italian"}),
	}}, nil)
	f.entities.On("GetByTypes", mock.Anything, []string{"restaurants"}).Return([]*domain.CustomEntity{
		{ID: "r1", Type: "restaurant", Name: "Chez Paul", Coords: osmNode, Tags: map[string]string{"cuisine": "french"}},
		{ID: "r2", Type: "restaurant", Name: "Secret", Coords: customOnly, Tags: map[string]string{"phone": "+33 1"}},
	}, nil)

	result, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerRestaurant)
	require.NoError(t, err)
	assert.Equal(t, 2, result.EntityCount)
	assert.Equal(t, 2, result.FeatureCount)

	features := layerFeatures(t, s, domain.LayerRestaurant)

	merged := findFeature(features, "node/1")
	require.NotNil(t, merged)
	assert.Equal(t, "Chez Paul", merged.Tags["name"])
	assert.Equal(t, "french", merged.Tags["cuisine"])
	assert.Equal(t, "restaurant", merged.Tags["amenity"])
	assert.True(t, merged.Custom)

	synthetic := findFeature(features, domain.CoordKey(customOnly.Lat, customOnly.Lon))
	require.NotNil(t, synthetic)
	assert.Equal(t, "Secret", synthetic.Tags["name"])
	assert.Equal(t, "+33 1", synthetic.Tags["phone"])
	assert.True(t, synthetic.Custom)
	assert.True(t, synthetic.Visible)
}

func TestFusion_TagMemorySurvivesEntityRemoval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	osmNode := north(parisCenter, 200)
	f.geo.On("Query", mock.Anything, mock.Anything).Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
		node(1, osmNode, map[string]string{"amenity": "restaurant"}),
	}}, nil)
	f.entities.On("GetByTypes", mock.Anything, mock.Anything).Return([]*domain.CustomEntity{
		{ID: "r1", Type: "restaurant", Name: "Chez Paul", Coords: osmNode},
	}, nil).Once()
	f.entities.On("GetByTypes", mock.Anything, mock.Anything).Return([]*domain.CustomEntity{}, nil).Once()

	_, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerRestaurant)
	require.NoError(t, err)
	_, err = f.sessions.ApplyFilter(ctx, s.ID, domain.LayerRestaurant, 2)
	require.NoError(t, err)

	features := layerFeatures(t, s, domain.LayerRestaurant)
	require.Len(t, features, 1)
	assert.Equal(t, "Chez Paul", features[0].Tags["name"])
}

func TestFusion_StaleResponseIsDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	f.geo.On("Query", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// слой скрыт, пока запрос в полете
			_, err := f.sessions.HideLayer(ctx, s.ID, domain.LayerRestaurant)
			assert.NoError(t, err)
		}).
		Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
			node(1, north(parisCenter, 100), map[string]string{"amenity": "restaurant"}),
		}}, nil).Once()
	f.entities.On("GetByTypes", mock.Anything, mock.Anything).Return([]*domain.CustomEntity{}, nil)

	result, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerRestaurant)
	require.NoError(t, err)
	assert.False(t, result.Published)
	assert.Equal(t, usecase.SkipReasonStale, result.SkipReason)
	assert.Empty(t, layerFeatures(t, s, domain.LayerRestaurant))
	assert.False(t, s.Controller.IsActive(domain.LayerRestaurant))
}

func TestFusion_FailedNewerFetchDoesNotDropOlderResponse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sessionAt(t, parisCenter)

	var nestedErr error
	f.geo.On("Query", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// пока первый запрос в полете, фильтр с другим радиусом падает по сети
			_, nestedErr = f.sessions.ApplyFilter(ctx, s.ID, domain.LayerRestaurant, 2)
		}).
		Return(&domain.GeoQueryResult{Elements: []domain.RawElement{
			node(1, north(parisCenter, 100), map[string]string{"amenity": "restaurant"}),
		}}, nil).Once()
	f.geo.On("Query", mock.Anything, mock.Anything).Return(nil, errors.ErrNetwork).Once()
	f.entities.On("GetByTypes", mock.Anything, mock.Anything).Return([]*domain.CustomEntity{}, nil)

	result, err := f.sessions.ShowLayer(ctx, s.ID, domain.LayerRestaurant)
	require.NoError(t, err)
	assert.True(t, stderrors.Is(nestedErr, errors.ErrNetwork))

	assert.True(t, result.Published)
	assert.Empty(t, result.SkipReason)
	assert.Len(t, layerFeatures(t, s, domain.LayerRestaurant), 1)
	assert.True(t, s.Controller.IsActive(domain.LayerRestaurant))
	f.geo.AssertExpectations(t)
}
