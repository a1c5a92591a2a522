package usecase

import (
	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/utils"
)

// RadiusFilter - видимость объекта по great-circle расстоянию до позиции пользователя.
// Объекты за радиусом не удаляются, а помечаются невидимыми.
type RadiusFilter struct{}

func NewRadiusFilter() *RadiusFilter {
	return &RadiusFilter{}
}

// Distance в метрах до представительной точки объекта
func (RadiusFilter) Distance(position domain.LatLon, f *domain.RenderFeature) float64 {
	p := f.RepresentativePoint()
	return utils.HaversineDistance(position.Lat, position.Lon, p.Lat(), p.Lon())
}

// Within - distance <= radiusKm * 1000
func (r RadiusFilter) Within(position domain.LatLon, radiusKm float64, f *domain.RenderFeature) bool {
	return r.Distance(position, f) <= radiusKm*1000
}

// Apply проставляет Visible и DistanceM; без позиции фильтрация пропускается.
// Возвращает количество видимых объектов.
func (r RadiusFilter) Apply(position *domain.LatLon, radiusKm float64, features []*domain.RenderFeature) int {
	visible := 0
	for _, f := range features {
		if position == nil {
			f.Visible = true
			f.DistanceM = 0
			visible++
			continue
		}
		f.DistanceM = r.Distance(*position, f)
		f.Visible = f.DistanceM <= radiusKm*1000
		if f.Visible {
			visible++
		}
	}
	return visible
}
