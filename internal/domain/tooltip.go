package domain

import "time"

type PointerKind string

const (
	PointerMove PointerKind = "move"
	PointerTap  PointerKind = "tap"
)

// PointerEvent - событие указателя от UI в координатах карты
type PointerEvent struct {
	Lon        float64     `json:"lon"`
	Lat        float64     `json:"lat"`
	ToleranceM float64     `json:"tolerance_m"`
	Kind       PointerKind `json:"kind"`
}

// TooltipState - состояние единственной всплывающей подсказки сессии
type TooltipState struct {
	Visible   bool    `json:"visible"`
	HTML      *string `json:"html"`
	Position  *LatLon `json:"position,omitempty"`
	Layer     string  `json:"layer,omitempty"`
	FeatureID string  `json:"feature_id,omitempty"`
	// Class - css класс карточки (tooltip-card или tooltip-pin)
	Class string `json:"class,omitempty"`
	// ClusterSize - количество объектов под указателем для кластерных слоев
	ClusterSize int `json:"cluster_size,omitempty"`
}

// HiddenTooltip - пустое состояние
func HiddenTooltip() TooltipState {
	return TooltipState{}
}

// Place - результат поиска места (geocoding)
type Place struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Position    LatLon       `json:"position"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	FoundAt     time.Time    `json:"found_at"`
}

// ViewState - последний fit вида карты
type ViewState struct {
	Extent  *BoundingBox `json:"extent"`
	Padding [4]float64   `json:"padding"`
	Layer   string       `json:"layer,omitempty"`
	FitAt   time.Time    `json:"fit_at"`
}
