package usecase_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/usecase"
)

func newResolver(t *testing.T) (*usecase.RenderSet, *usecase.TooltipResolver) {
	t.Helper()
	set := usecase.NewRenderSet(memoryRenderFactory())
	return set, usecase.NewTooltipResolver(set, nil, 15, 40)
}

func addTo(t *testing.T, set *usecase.RenderSet, layer string, features ...*domain.RenderFeature) {
	t.Helper()
	l, ok := set.Layer(layer)
	require.True(t, ok)
	l.Features.AddFeatures(features)
	if l.Clusters != nil {
		l.Clusters.Upsert(features)
	}
}

func move(p domain.LatLon) domain.PointerEvent {
	return domain.PointerEvent{Lat: p.Lat, Lon: p.Lon, Kind: domain.PointerMove}
}

func TestTooltipResolver_PolygonContainsPointer(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerGreen, &domain.RenderFeature{
		ID:       "way/1",
		Geometry: orb.Polygon{{{2.34, 48.84}, {2.36, 48.84}, {2.36, 48.86}, {2.34, 48.86}, {2.34, 48.84}}},
		Tags:     map[string]string{"name": "Jardin", "leisure": "garden"},
		Type:     domain.FeatureTypeArea,
		Visible:  true,
	})

	state := r.Pointer(move(parisCenter))
	require.True(t, state.Visible)
	assert.Equal(t, domain.LayerGreen, state.Layer)
	assert.Contains(t, *state.HTML, "Jardin")
}

func TestTooltipResolver_LineWithinTolerance(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerWater, &domain.RenderFeature{
		ID:       "way/2",
		Geometry: orb.LineString{{2.34, 48.85}, {2.36, 48.85}},
		Tags:     map[string]string{"waterway": "canal", "name": "Canal Saint-Martin"},
		Type:     domain.FeatureTypeLine,
		Visible:  true,
	})

	state := r.Pointer(move(north(parisCenter, 10)))
	require.True(t, state.Visible)
	assert.Equal(t, "way/2", state.FeatureID)

	state = r.Pointer(move(north(parisCenter, 50)))
	assert.False(t, state.Visible)
}

func TestTooltipResolver_InvisibleFeaturesAreNotHit(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerRestaurant, &domain.RenderFeature{
		ID:       "node/1",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Hors rayon"},
		Type:     domain.FeatureTypePoint,
		Visible:  false,
	})

	assert.False(t, r.Pointer(move(parisCenter)).Visible)
}

func TestTooltipResolver_TopmostLayerWins(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerGreen, &domain.RenderFeature{
		ID:       "way/1",
		Geometry: orb.Polygon{{{2.34, 48.84}, {2.36, 48.84}, {2.36, 48.86}, {2.34, 48.86}, {2.34, 48.84}}},
		Tags:     map[string]string{"name": "Jardin"},
		Visible:  true,
	})
	addTo(t, set, domain.LayerHotel, &domain.RenderFeature{
		ID:       "node/7",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Hôtel du Jardin"},
		Visible:  true,
	})

	state := r.Pointer(move(parisCenter))
	require.True(t, state.Visible)
	assert.Equal(t, domain.LayerHotel, state.Layer)
	assert.Equal(t, 1, state.ClusterSize)
}

func TestTooltipResolver_ClusterSize(t *testing.T) {
	set, r := newResolver(t)
	layer := domain.FoodLayerName("bakery")
	addTo(t, set, layer,
		&domain.RenderFeature{ID: "node/1", Geometry: parisCenter.Point(), Tags: map[string]string{"shop": "bakery"}, Visible: true},
		&domain.RenderFeature{ID: "node/2", Geometry: north(parisCenter, 20).Point(), Tags: map[string]string{"shop": "bakery"}, Visible: true},
		&domain.RenderFeature{ID: "node/3", Geometry: north(parisCenter, 500).Point(), Tags: map[string]string{"shop": "bakery"}, Visible: true},
	)

	state := r.Pointer(move(parisCenter))
	require.True(t, state.Visible)
	assert.Equal(t, 2, state.ClusterSize)
	assert.Contains(t, *state.HTML, "2 × Boulangerie")
}

func TestTooltipResolver_RefreshHidesRemovedFeature(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerRestaurant, &domain.RenderFeature{
		ID:       "node/1",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Chez Paul"},
		Visible:  true,
	})
	require.True(t, r.Pointer(move(parisCenter)).Visible)

	l, _ := set.Layer(domain.LayerRestaurant)
	l.Features.Clear()

	assert.False(t, r.Refresh().Visible)
	assert.False(t, r.State().Visible)
}

func TestTooltipResolver_RefreshKeepsHitLayerWhenIDIsShared(t *testing.T) {
	set, r := newResolver(t)
	addTo(t, set, domain.LayerRestaurant, &domain.RenderFeature{
		ID:       "node/1",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Chez Paul", "amenity": "restaurant"},
		Type:     domain.FeatureTypePoint,
		Visible:  true,
	})
	// food рисуется выше restaurant; его копия вне радиуса
	addTo(t, set, domain.LayerFood, &domain.RenderFeature{
		ID:       "node/1",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Chez Paul", "amenity": "restaurant"},
		Type:     domain.FeatureTypePoint,
		Visible:  false,
	})

	state := r.Pointer(move(parisCenter))
	require.True(t, state.Visible)
	require.Equal(t, domain.LayerRestaurant, state.Layer)

	state = r.Refresh()
	assert.True(t, state.Visible)
	assert.Equal(t, domain.LayerRestaurant, state.Layer)

	// копия в food стала видимой: подсказка остается у слоя, в который попали
	food, _ := set.Layer(domain.LayerFood)
	food.Features.Clear()
	food.Features.AddFeatures([]*domain.RenderFeature{{
		ID:       "node/1",
		Geometry: parisCenter.Point(),
		Tags:     map[string]string{"name": "Chez Paul", "amenity": "restaurant"},
		Type:     domain.FeatureTypePoint,
		Visible:  true,
	}})

	state = r.SetTranslations(usecase.Translations{"restaurant": "Restaurant"})
	assert.True(t, state.Visible)
	assert.Equal(t, domain.LayerRestaurant, state.Layer)
	assert.Equal(t, "node/1", state.FeatureID)
}
