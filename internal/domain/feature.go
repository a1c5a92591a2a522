package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature types
const (
	FeatureTypePoint = "point"
	FeatureTypeLine  = "line"
	FeatureTypeArea  = "area"
	FeatureTypeIcon  = "icon"
	FeatureTypePin   = "pin"
)

// RenderFeature - объект слоя отрисовки. Принадлежит только слою, который его хранит.
type RenderFeature struct {
	ID          string            `json:"id"`
	Geometry    orb.Geometry      `json:"-"`
	Tags        map[string]string `json:"tags"`
	Type        string            `json:"type"`
	IsIconPoint bool              `json:"is_icon_point"`

	// Visible - внутри радиуса слоя; невидимые объекты остаются в источнике,
	// но не рисуются и не участвуют в hit-test
	Visible   bool    `json:"visible"`
	DistanceM float64 `json:"distance_m"`
	Custom    bool    `json:"custom"`
}

// RepresentativePoint - собственная координата для точки, центр bbox для линий и площадей
func (f *RenderFeature) RepresentativePoint() orb.Point {
	if p, ok := f.Geometry.(orb.Point); ok {
		return p
	}
	if f.Geometry == nil {
		return orb.Point{}
	}
	return f.Geometry.Bound().Center()
}

// IsPointLike - точка или icon anchor (маршрутизируется в кластерный источник)
func (f *RenderFeature) IsPointLike() bool {
	_, ok := f.Geometry.(orb.Point)
	return ok
}

// Tag безопасно читает тег
func (f *RenderFeature) Tag(key string) string {
	if f == nil || f.Tags == nil {
		return ""
	}
	return f.Tags[key]
}

// ToGeoJSON превращает объект в geojson.Feature для UI
func (f *RenderFeature) ToGeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry)
	gf.ID = f.ID
	props := make(geojson.Properties, len(f.Tags)+5)
	for k, v := range f.Tags {
		props[k] = v
	}
	props["feature_id"] = f.ID
	props["feature_type"] = f.Type
	props["is_icon_point"] = f.IsIconPoint
	props["visible"] = f.Visible
	props["distance_m"] = f.DistanceM
	gf.Properties = props
	return gf
}

// CloneTags делает копию карты тегов
func CloneTags(tags map[string]string) map[string]string {
	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		cp[k] = v
	}
	return cp
}
