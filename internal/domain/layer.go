package domain

import (
	"fmt"
	"strings"
)

// LayerKind - вариант слоя; по нему выбираются обработчик запроса и шаблон подсказки
type LayerKind int

const (
	LayerKindWater LayerKind = iota
	LayerKindGreen
	LayerKindRestaurant
	LayerKindChurch
	LayerKindHotel
	LayerKindFood
	LayerKindFoodShop
	LayerKindPin
)

func (k LayerKind) String() string {
	switch k {
	case LayerKindWater:
		return "water"
	case LayerKindGreen:
		return "green"
	case LayerKindRestaurant:
		return "restaurant"
	case LayerKindChurch:
		return "church"
	case LayerKindHotel:
		return "hotel"
	case LayerKindFood:
		return "food"
	case LayerKindFoodShop:
		return "food_shop"
	case LayerKindPin:
		return "pin"
	default:
		return fmt.Sprintf("layer_kind(%d)", int(k))
	}
}

// QueryShape - форма пространственного запроса
type QueryShape int

const (
	// QueryShapeBBox - (minLat,minLon,maxLat,maxLon) вокруг позиции
	QueryShapeBBox QueryShape = iota
	// QueryShapeAround - around:<radiusMeters>,<lat>,<lon>
	QueryShapeAround
)

// TagPredicate - фильтр по тегу: ["key"="value"] или ["key"~"a|b"]
type TagPredicate struct {
	Key   string
	Value string
	Regex bool
}

func (p TagPredicate) String() string {
	op := "="
	if p.Regex {
		op = "~"
	}
	return fmt.Sprintf(`["%s"%s"%s"]`, p.Key, op, p.Value)
}

// LayerDefinition - статическое описание тематического слоя
type LayerDefinition struct {
	Name         string
	Kind         LayerKind
	Label        string
	Shape        QueryShape
	ElementTypes []ElementType
	Predicates   []TagPredicate
	// EntityTypes - семантические типы для хранилища custom entities
	EntityTypes  []string
	FallbackName string
	Clustered    bool
	// Subtype - ключ типа магазина для food_shop слоев
	Subtype string
}

// EntityCollections - pluralized lower-case имена коллекций
func (d LayerDefinition) EntityCollections() []string {
	return CollectionNames(d.EntityTypes)
}

// LayerRecord - состояние слоя в сессии
type LayerRecord struct {
	Name     string  `json:"name"`
	RadiusKm float64 `json:"radius_km"`
	Active   bool    `json:"active"`
}

// FoodLayerName - имя слоя для подтипа продуктового магазина
func FoodLayerName(subtype string) string {
	return FoodLayerPrefix + subtype
}

// IsFoodLayer проверяет префикс food:
func IsFoodLayer(name string) bool {
	return strings.HasPrefix(name, FoodLayerPrefix)
}
