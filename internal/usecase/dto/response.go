package dto

import (
	"time"

	"github.com/geofusion-service/internal/domain"
)

// SessionResponse - созданная сессия
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// LayerInfo - слой каталога для UI
type LayerInfo struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	Clustered bool   `json:"clustered"`
}

// LayerCatalogResponse - все доступные слои
type LayerCatalogResponse struct {
	Layers []LayerInfo `json:"layers"`
}

// LayerStateResponse - activeLayers, selectedLayer, cooldown и радиусы
type LayerStateResponse struct {
	ActiveLayers        []string                      `json:"active_layers"`
	SelectedLayer       string                        `json:"selected_layer"`
	CanApplyFilter      bool                          `json:"can_apply_filter"`
	CooldownRemainingMs int64                         `json:"cooldown_remaining_ms"`
	CurrentRadiusKm     float64                       `json:"current_radius_km"`
	Layers              map[string]domain.LayerRecord `json:"layers"`
	AvailableLayers     []LayerInfo                   `json:"available_layers"`
}

// HideLayerResponse - результат скрытия слоя
type HideLayerResponse struct {
	Layer         string `json:"layer"`
	WasActive     bool   `json:"was_active"`
	SelectedLayer string `json:"selected_layer"`
}

// PositionResponse - позиция пользователя и найденное место, если был поиск
type PositionResponse struct {
	Position domain.LatLon `json:"position"`
	Place    *domain.Place `json:"place,omitempty"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status        string            `json:"status"`
	Sessions      int               `json:"sessions"`
	QueryCacheLen int               `json:"query_cache_len"`
	Checks        map[string]string `json:"checks,omitempty"`
}
