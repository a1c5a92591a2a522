package repository

import (
	"github.com/paulmach/orb"

	"github.com/geofusion-service/internal/domain"
)

// FeatureSource - коллекция объектов одного слоя отрисовки
type FeatureSource interface {
	Clear()
	AddFeatures(features []*domain.RenderFeature)
	// Extent - bbox всех объектов; false если источник пуст
	Extent() (orb.Bound, bool)
	Features() []*domain.RenderFeature
	Contains(featureID string) bool
	Get(featureID string) (*domain.RenderFeature, bool)
	Len() int
}

// ClusterSource - точечный источник кластерного слоя, ключ - стабильный id
type ClusterSource interface {
	// Upsert обновляет геометрию и свойства на месте, если id уже есть
	Upsert(features []*domain.RenderFeature)
	// Retain удаляет id, которых нет в наборе
	Retain(ids map[string]struct{})
	Features() []*domain.RenderFeature
	Contains(featureID string) bool
	Clear()
	Len() int
}

// MapView - вид карты, принимает fit по extent
type MapView interface {
	Fit(layer string, extent orb.Bound, padding [4]float64)
	State() domain.ViewState
}
