package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/utils"
)

// BuildQuery рендерит Overpass QL для слоя. Результат детерминирован и
// используется как ключ GeoQueryCache, поэтому радиус входит в текст.
func BuildQuery(def domain.LayerDefinition, position domain.LatLon, radiusKm float64) string {
	radiusM := radiusKm * 1000

	var area string
	switch def.Shape {
	case domain.QueryShapeAround:
		area = fmt.Sprintf("(around:%s,%.6f,%.6f)",
			strconv.FormatFloat(radiusM, 'f', -1, 64), position.Lat, position.Lon)
	default:
		bbox := BoundingBoxAround(position, radiusM)
		area = fmt.Sprintf("(%.6f,%.6f,%.6f,%.6f)", bbox.MinLat, bbox.MinLon, bbox.MaxLat, bbox.MaxLon)
	}

	var b strings.Builder
	b.WriteString("[out:json];\n(")
	for _, p := range def.Predicates {
		for _, t := range def.ElementTypes {
			b.WriteString(string(t))
			b.WriteString(p.String())
			b.WriteString(area)
			b.WriteString(";\n")
		}
	}
	b.WriteString(");\nout geom;")
	return b.String()
}

// BoundingBoxAround - квадрат с фиксированной дельтой r/111320 градусов вокруг позиции
func BoundingBoxAround(position domain.LatLon, radiusM float64) domain.BoundingBox {
	delta := utils.MetersToDegrees(radiusM)
	return domain.BoundingBox{
		MinLat: position.Lat - delta,
		MinLon: position.Lon - delta,
		MaxLat: position.Lat + delta,
		MaxLon: position.Lon + delta,
	}
}
