package dto

// SetPositionRequest - позиция пользователя (геолокация)
type SetPositionRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// PlaceSearchRequest - поиск места, найденная точка становится позицией пользователя
type PlaceSearchRequest struct {
	Query    string `json:"query" validate:"required,min=2,max=200"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=en es ca ru uk fr pt it de"`
}

// LayerRequest - имя слоя из path
type LayerRequest struct {
	Name string `json:"name" validate:"required,layer"`
}

// ApplyFilterRequest - новый радиус слоя
type ApplyFilterRequest struct {
	RadiusKm float64 `json:"radius_km" validate:"required,min=0.1,max=100"`
}

// PointerRequest - move/tap в координатах карты
type PointerRequest struct {
	Lat        float64 `json:"lat" validate:"min=-90,max=90"`
	Lon        float64 `json:"lon" validate:"min=-180,max=180"`
	ToleranceM float64 `json:"tolerance_m,omitempty" validate:"omitempty,min=0,max=1000"`
	Kind       string  `json:"kind" validate:"required,oneof=move tap"`
}

// TranslationsRequest - набор переводов UI для подсказок
type TranslationsRequest struct {
	Translations map[string]string `json:"translations" validate:"required"`
}

// EntitiesRequest - GET /entities?types=churchs,hotels
type EntitiesRequest struct {
	Types string `query:"types" validate:"required,max=2000"`
}
