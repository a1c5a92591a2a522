package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// LatLon - координата в формате сервиса open-geodata
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point переводит координату в orb.Point (lon, lat)
func (p LatLon) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// LatLonFromPoint - обратное преобразование orb.Point -> LatLon
func LatLonFromPoint(p orb.Point) LatLon {
	return LatLon{Lat: p.Lat(), Lon: p.Lon()}
}

// CoordKey - стабильный ключ координаты, округленный до 1e-6 градуса
func CoordKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f_%.6f", lat, lon)
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundingBoxFromBound переводит orb.Bound в BoundingBox
func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}
