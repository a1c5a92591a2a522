package usecase

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/utils"
)

const metersPerDegree = 111320.0

type hit struct {
	layer       *RenderLayer
	feature     *domain.RenderFeature
	clusterSize int
}

// localProjection - равнопромежуточная проекция в метрах с центром в origin
func localProjection(origin orb.Point) orb.Projection {
	cosLat := math.Cos(origin.Lat() * math.Pi / 180.0)
	return func(p orb.Point) orb.Point {
		return orb.Point{
			(p.Lon() - origin.Lon()) * cosLat * metersPerDegree,
			(p.Lat() - origin.Lat()) * metersPerDegree,
		}
	}
}

// distanceToGeometry - метры от точки до геометрии, 0 внутри площади
func distanceToGeometry(g orb.Geometry, origin orb.Point) float64 {
	if p, ok := g.(orb.Point); ok {
		return utils.HaversineDistance(origin.Lat(), origin.Lon(), p.Lat(), p.Lon())
	}

	projected := project.Geometry(orb.Clone(g), localProjection(origin))
	center := orb.Point{0, 0}
	switch geom := projected.(type) {
	case orb.Polygon:
		if planar.PolygonContains(geom, center) {
			return 0
		}
	case orb.MultiPolygon:
		if planar.MultiPolygonContains(geom, center) {
			return 0
		}
	}
	return planar.DistanceFrom(projected, center)
}

// rank: точки поверх линий, линии поверх площадей
func rank(f *domain.RenderFeature) int {
	switch f.Geometry.(type) {
	case orb.Point:
		return 0
	case orb.LineString, orb.MultiLineString:
		return 1
	default:
		return 2
	}
}

// hitTest ищет верхний видимый объект под указателем. Слои передаются сверху вниз.
func hitTest(layers []*RenderLayer, p orb.Point, toleranceM, clusterDistanceM float64) *hit {
	for _, l := range layers {
		candidates := layerCandidates(l)

		var best *domain.RenderFeature
		bestRank, bestDist := 0, 0.0
		for _, f := range candidates {
			if !f.Visible || f.Geometry == nil {
				continue
			}
			d := distanceToGeometry(f.Geometry, p)
			if d > toleranceM {
				continue
			}
			r := rank(f)
			// при равенстве выигрывает объект, добавленный позже (рисуется выше)
			if best == nil || r < bestRank || (r == bestRank && d <= bestDist) {
				best, bestRank, bestDist = f, r, d
			}
		}
		if best == nil {
			continue
		}

		h := &hit{layer: l, feature: best, clusterSize: 1}
		if l.Clusters != nil && best.IsPointLike() {
			h.clusterSize = clusterSize(candidates, best, clusterDistanceM)
		}
		return h
	}
	return nil
}

// layerCandidates: для кластерного слоя точки берутся из кластерного источника
func layerCandidates(l *RenderLayer) []*domain.RenderFeature {
	features := l.Features.Features()
	if l.Clusters == nil {
		return features
	}
	out := l.Clusters.Features()
	for _, f := range features {
		if !f.IsPointLike() {
			out = append(out, f)
		}
	}
	return out
}

func clusterSize(candidates []*domain.RenderFeature, center *domain.RenderFeature, distanceM float64) int {
	c := center.RepresentativePoint()
	n := 0
	for _, f := range candidates {
		if !f.Visible || !f.IsPointLike() {
			continue
		}
		p := f.RepresentativePoint()
		if utils.HaversineDistance(c.Lat(), c.Lon(), p.Lat(), p.Lon()) <= distanceM {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}
