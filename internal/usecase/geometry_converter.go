package usecase

import (
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
)

const (
	relationTypeKey          = "type"
	relationTypeMultipolygon = "multipolygon"
	iconIDSuffix             = "#icon"
	minClosedRingPoints      = 4
)

// GeometryConverter - чистое детерминированное преобразование RawElement -> RenderFeature
type GeometryConverter struct {
	logger *zap.Logger
}

func NewGeometryConverter(logger *zap.Logger) *GeometryConverter {
	return &GeometryConverter{logger: logger}
}

// ConvertElements сохраняет порядок входа; icon anchor идет сразу за своей площадью.
// Элемент без пригодной геометрии пропускается.
func (c *GeometryConverter) ConvertElements(elements []domain.RawElement) []*domain.RenderFeature {
	features := make([]*domain.RenderFeature, 0, len(elements))
	skipped := 0

	for i := range elements {
		el := &elements[i]
		var converted []*domain.RenderFeature
		switch el.Type {
		case domain.ElementNode:
			converted = convertNode(el)
		case domain.ElementWay:
			converted = convertWay(el)
		case domain.ElementRelation:
			converted = convertRelation(el)
		}
		if len(converted) == 0 {
			skipped++
			continue
		}
		features = append(features, converted...)
	}

	if skipped > 0 && c.logger != nil {
		c.logger.Debug("Skipped elements without usable geometry",
			zap.Int("skipped", skipped),
			zap.Int("element_count", len(elements)))
	}
	return features
}

// FeatureID - стабильный id: node/<id>, way/<id>, relation/<id>;
// синтетический node получает ключ по координате
func FeatureID(el *domain.RawElement) string {
	if el.Custom || el.ID == 0 {
		return domain.CoordKey(el.Lat, el.Lon)
	}
	return fmt.Sprintf("%s/%d", el.Type, el.ID)
}

func convertNode(el *domain.RawElement) []*domain.RenderFeature {
	if !validLatLon(el.Lat, el.Lon) {
		return nil
	}
	return []*domain.RenderFeature{{
		ID:       FeatureID(el),
		Geometry: orb.Point{el.Lon, el.Lat},
		Tags:     domain.CloneTags(el.Tags),
		Type:     domain.FeatureTypePoint,
		Visible:  true,
		Custom:   el.Custom,
	}}
}

func convertWay(el *domain.RawElement) []*domain.RenderFeature {
	if len(el.Geometry) < 2 {
		return nil
	}
	coords := toLineString(el.Geometry)
	id := FeatureID(el)

	if isClosed(coords) {
		polygon := orb.Polygon{orb.Ring(coords)}
		return []*domain.RenderFeature{
			{
				ID:       id,
				Geometry: polygon,
				Tags:     domain.CloneTags(el.Tags),
				Type:     domain.FeatureTypeArea,
				Visible:  true,
			},
			iconAnchor(id, polygon.Bound(), el.Tags),
		}
	}

	return []*domain.RenderFeature{{
		ID:       id,
		Geometry: coords,
		Tags:     domain.CloneTags(el.Tags),
		Type:     domain.FeatureTypeLine,
		Visible:  true,
	}}
}

// convertRelation - только multipolygon. Каждое внутреннее кольцо прикрепляется
// к каждому внешнему, без проверки вложенности.
func convertRelation(el *domain.RawElement) []*domain.RenderFeature {
	if el.Tags[relationTypeKey] != relationTypeMultipolygon {
		return nil
	}

	var outerSegments, innerSegments []orb.LineString
	for _, m := range el.Members {
		if len(m.Geometry) < 2 {
			continue
		}
		switch m.Role {
		case domain.RoleOuter:
			outerSegments = append(outerSegments, toLineString(m.Geometry))
		case domain.RoleInner:
			innerSegments = append(innerSegments, toLineString(m.Geometry))
		}
	}

	outers := assembleRings(outerSegments)
	if len(outers) == 0 {
		return nil
	}
	inners := assembleRings(innerSegments)

	polygons := make(orb.MultiPolygon, 0, len(outers))
	for _, outer := range outers {
		polygon := make(orb.Polygon, 0, 1+len(inners))
		polygon = append(polygon, outer)
		for _, inner := range inners {
			polygon = append(polygon, inner.Clone())
		}
		polygons = append(polygons, polygon)
	}

	var geometry orb.Geometry = polygons
	if len(polygons) == 1 {
		geometry = polygons[0]
	}

	id := FeatureID(el)
	return []*domain.RenderFeature{
		{
			ID:       id,
			Geometry: geometry,
			Tags:     domain.CloneTags(el.Tags),
			Type:     domain.FeatureTypeArea,
			Visible:  true,
		},
		iconAnchor(id, outers[0].Bound(), el.Tags),
	}
}

func iconAnchor(parentID string, bound orb.Bound, tags map[string]string) *domain.RenderFeature {
	return &domain.RenderFeature{
		ID:          parentID + iconIDSuffix,
		Geometry:    bound.Center(),
		Tags:        domain.CloneTags(tags),
		Type:        domain.FeatureTypeIcon,
		IsIconPoint: true,
		Visible:     true,
	}
}

func toLineString(coords []domain.LatLon) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		ls = append(ls, orb.Point{c.Lon, c.Lat})
	}
	return ls
}

func isClosed(ls orb.LineString) bool {
	return len(ls) >= minClosedRingPoints && ls[0].Equal(ls[len(ls)-1])
}

// assembleRings склеивает сегменты member-ways в кольца по общим концам.
// Кольца идут в порядке первого входящего в них member. Уже замкнутый сегмент -
// готовое кольцо; цепочка, которую не удалось замкнуть, закрывается
// принудительно, если в ней хотя бы 3 точки.
func assembleRings(segments []orb.LineString) []orb.Ring {
	rings := make([]orb.Ring, 0, len(segments))
	used := make([]bool, len(segments))
	closed := make([]bool, len(segments))
	for i, s := range segments {
		closed[i] = isClosed(s)
	}

	for start, s := range segments {
		if used[start] {
			continue
		}
		used[start] = true
		if closed[start] {
			rings = append(rings, orb.Ring(s.Clone()))
			continue
		}

		chain := s.Clone()
		for !chain[0].Equal(chain[len(chain)-1]) {
			next := -1
			reverse := false
			tail := chain[len(chain)-1]
			for i := start + 1; i < len(segments); i++ {
				if used[i] || closed[i] {
					continue
				}
				seg := segments[i]
				if seg[0].Equal(tail) {
					next = i
					break
				}
				if seg[len(seg)-1].Equal(tail) {
					next, reverse = i, true
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			seg := segments[next].Clone()
			if reverse {
				seg.Reverse()
			}
			chain = append(chain, seg[1:]...)
		}

		if !chain[0].Equal(chain[len(chain)-1]) {
			if len(chain) < 3 {
				continue
			}
			chain = append(chain, chain[0])
		}
		if len(chain) < minClosedRingPoints {
			continue
		}
		rings = append(rings, orb.Ring(chain))
	}

	return rings
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
