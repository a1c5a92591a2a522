package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/pkg/utils"
	"github.com/geofusion-service/internal/usecase/dto"
)

// PinFeatureID - id единственного маркера позиции
const PinFeatureID = "pin"

type SessionConfig struct {
	FilterCooldown   time.Duration
	DefaultRadiusKm  float64
	MatchTolerance   float64
	TagMemorySize    int
	HitToleranceM    float64
	ClusterDistanceM float64
}

// layerHandler - обработчик показа слоя, выбирается по варианту слоя
type layerHandler func(ctx context.Context, s *Session, def domain.LayerDefinition) (*FusionResult, error)

// SessionUseCase - реестр сессий и все UI операции над ними
type SessionUseCase struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	fusion   *FusionUseCase
	places   repository.PlaceRepository
	factory  RenderFactory
	cfg      SessionConfig
	handlers map[domain.LayerKind]layerHandler

	now    func() time.Time
	logger *zap.Logger
}

func NewSessionUseCase(
	fusion *FusionUseCase,
	places repository.PlaceRepository,
	factory RenderFactory,
	cfg SessionConfig,
	logger *zap.Logger,
) *SessionUseCase {
	uc := &SessionUseCase{
		sessions: make(map[string]*Session),
		fusion:   fusion,
		places:   places,
		factory:  factory,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
	// Таблица вместо вызова по имени метода. Все тематические слои идут через один
	// конвейер: различия (форма запроса, теги, коллекции, кластеризация, fallback name)
	// задаются в LayerDefinition. Pin не запрашивается и в таблицу не входит.
	uc.handlers = map[domain.LayerKind]layerHandler{
		domain.LayerKindWater:      fusion.ShowLayer,
		domain.LayerKindGreen:      fusion.ShowLayer,
		domain.LayerKindRestaurant: fusion.ShowLayer,
		domain.LayerKindChurch:     fusion.ShowLayer,
		domain.LayerKindHotel:      fusion.ShowLayer,
		domain.LayerKindFood:       fusion.ShowLayer,
		domain.LayerKindFoodShop:   fusion.ShowLayer,
	}
	return uc
}

// WithClock подменяет часы сессий и cooldown (для тестов)
func (uc *SessionUseCase) WithClock(now func() time.Time) *SessionUseCase {
	uc.mu.Lock()
	uc.now = now
	uc.mu.Unlock()
	return uc
}

func (uc *SessionUseCase) Create() *Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := newSession(uc.cfg, uc.factory, uc.now())
	s.Controller.WithClock(uc.now)
	uc.sessions[s.ID] = s
	uc.logger.Info("Session created", zap.String("session_id", s.ID))
	return s
}

// Get возвращает сессию и продлевает ее жизнь
func (uc *SessionUseCase) Get(id string) (*Session, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[id]
	now := uc.now
	uc.mu.RUnlock()
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	s.touch(now())
	return s, nil
}

func (uc *SessionUseCase) Delete(id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[id]; !ok {
		return errors.ErrSessionNotFound
	}
	delete(uc.sessions, id)
	uc.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

func (uc *SessionUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// EvictIdle удаляет сессии без активности дольше ttl
func (uc *SessionUseCase) EvictIdle(ttl time.Duration) int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	cutoff := uc.now().Add(-ttl)
	evicted := 0
	for id, s := range uc.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(uc.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		uc.logger.Info("Idle sessions evicted",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(uc.sessions)))
	}
	return evicted
}

func lookupLayer(name string) (domain.LayerDefinition, error) {
	def, ok := domain.LookupLayer(name)
	if !ok {
		return domain.LayerDefinition{}, errors.ErrUnknownLayer.WithDetails(map[string]interface{}{
			"layer": name,
		})
	}
	return def, nil
}

// ShowLayer - showLayer(name)
func (uc *SessionUseCase) ShowLayer(ctx context.Context, sessionID, name string) (*FusionResult, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	def, err := lookupLayer(name)
	if err != nil {
		return nil, err
	}
	return uc.show(ctx, s, def)
}

func (uc *SessionUseCase) show(ctx context.Context, s *Session, def domain.LayerDefinition) (*FusionResult, error) {
	handler, ok := uc.handlers[def.Kind]
	if !ok {
		return nil, errors.ErrUnknownLayer.WithDetails(map[string]interface{}{
			"layer": def.Name,
		})
	}
	return handler(ctx, s, def)
}

// HideLayer очищает источники слоя и снимает его с активных
func (uc *SessionUseCase) HideLayer(ctx context.Context, sessionID, name string) (*dto.HideLayerResponse, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	def, err := lookupLayer(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if layer, ok := s.Render.Layer(def.Name); ok {
		layer.Features.Clear()
		if layer.Clusters != nil {
			layer.Clusters.Clear()
		}
	}
	wasActive := s.Controller.Hide(def.Name)
	s.mu.Unlock()

	s.Tooltip.Refresh()

	return &dto.HideLayerResponse{
		Layer:         def.Name,
		WasActive:     wasActive,
		SelectedLayer: s.Controller.Selected(),
	}, nil
}

// ApplyFilter ставит радиус, запускает cooldown и перезапрашивает слой.
// Во время cooldown запрос отбрасывается с FILTER_COOLDOWN.
func (uc *SessionUseCase) ApplyFilter(ctx context.Context, sessionID, name string, radiusKm float64) (*FusionResult, error) {
	if !utils.ValidateRadius(radiusKm) {
		return nil, errors.ErrInvalidRadius
	}
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	def, err := lookupLayer(name)
	if err != nil {
		return nil, err
	}
	return uc.applyFilter(ctx, s, def, radiusKm)
}

// ApplySelectedFilter применяет фильтр к выбранному слою через таблицу обработчиков
func (uc *SessionUseCase) ApplySelectedFilter(ctx context.Context, sessionID string, radiusKm float64) (*FusionResult, error) {
	if !utils.ValidateRadius(radiusKm) {
		return nil, errors.ErrInvalidRadius
	}
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	selected := s.Controller.Selected()
	if selected == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "no layer selected",
		})
	}
	def, err := lookupLayer(selected)
	if err != nil {
		return nil, err
	}
	return uc.applyFilter(ctx, s, def, radiusKm)
}

func (uc *SessionUseCase) applyFilter(ctx context.Context, s *Session, def domain.LayerDefinition, radiusKm float64) (*FusionResult, error) {
	if err := s.Controller.BeginFilter(def.Name, radiusKm); err != nil {
		uc.logger.Debug("Filter dropped during cooldown",
			zap.String("session_id", s.ID),
			zap.String("layer", def.Name))
		return nil, err
	}
	return uc.show(ctx, s, def)
}

// SetUserPosition ставит позицию и единственный pin
func (uc *SessionUseCase) SetUserPosition(ctx context.Context, sessionID string, lat, lon float64) (*dto.PositionResponse, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	pos := domain.LatLon{Lat: lat, Lon: lon}
	uc.placePin(s, pos)
	return &dto.PositionResponse{Position: pos}, nil
}

func (uc *SessionUseCase) placePin(s *Session, pos domain.LatLon) {
	s.setPosition(pos)

	pin, ok := s.Render.Layer(domain.PinLayerName)
	if !ok {
		return
	}
	s.mu.Lock()
	pin.Features.Clear()
	pin.Features.AddFeatures([]*domain.RenderFeature{{
		ID:       PinFeatureID,
		Geometry: pos.Point(),
		Tags:     map[string]string{"name": "position"},
		Type:     domain.FeatureTypePin,
		Visible:  true,
	}})
	s.mu.Unlock()
	s.Tooltip.Refresh()
}

// SetPositionFromPlace ищет место, ставит позицию в найденную точку и подгоняет вид
func (uc *SessionUseCase) SetPositionFromPlace(ctx context.Context, sessionID, query, lang string) (*dto.PositionResponse, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if uc.places == nil {
		return nil, errors.ErrPlaceNotFound
	}

	place, err := uc.places.Search(ctx, query, lang)
	if err != nil {
		uc.logger.Warn("Place search failed",
			zap.String("session_id", s.ID),
			zap.String("query", query),
			zap.Error(err))
		return nil, err
	}

	uc.placePin(s, place.Position)
	if place.BoundingBox != nil {
		bound := orb.Bound{
			Min: orb.Point{place.BoundingBox.MinLon, place.BoundingBox.MinLat},
			Max: orb.Point{place.BoundingBox.MaxLon, place.BoundingBox.MaxLat},
		}
		p := uc.fusion.padding
		s.Render.View().Fit(domain.PinLayerName, bound, p)
	}
	return &dto.PositionResponse{Position: place.Position, Place: place}, nil
}

// ActiveLayers - activeLayers сессии
func (uc *SessionUseCase) ActiveLayers(sessionID string) ([]string, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Controller.ActiveLayers(), nil
}

// LayerState - состояние слоев, радиус выбранного слоя и доступные слои
func (uc *SessionUseCase) LayerState(sessionID string) (*dto.LayerStateResponse, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	snap := s.Controller.Snapshot()
	return &dto.LayerStateResponse{
		ActiveLayers:        snap.ActiveLayers,
		SelectedLayer:       snap.SelectedLayer,
		CanApplyFilter:      snap.CanApplyFilter,
		CooldownRemainingMs: snap.CooldownRemainingMs,
		CurrentRadiusKm:     snap.CurrentRadiusKm,
		Layers:              snap.Layers,
		AvailableLayers:     LayerCatalog().Layers,
	}, nil
}

// LayerCatalog - каталог слоев в порядке отрисовки
func LayerCatalog() *dto.LayerCatalogResponse {
	defs := domain.Layers()
	out := &dto.LayerCatalogResponse{Layers: make([]dto.LayerInfo, 0, len(defs))}
	for _, d := range defs {
		out.Layers = append(out.Layers, dto.LayerInfo{
			Name:      d.Name,
			Label:     d.Label,
			Kind:      d.Kind.String(),
			Clustered: d.Clustered,
		})
	}
	return out
}

// Pointer - move/tap, возвращает состояние подсказки
func (uc *SessionUseCase) Pointer(sessionID string, ev domain.PointerEvent) (domain.TooltipState, error) {
	if !utils.ValidateCoordinates(ev.Lat, ev.Lon) {
		return domain.HiddenTooltip(), errors.ErrInvalidCoordinates
	}
	s, err := uc.Get(sessionID)
	if err != nil {
		return domain.HiddenTooltip(), err
	}
	return s.Tooltip.Pointer(ev), nil
}

// Tooltip - tooltipHtml сессии
func (uc *SessionUseCase) Tooltip(sessionID string) (domain.TooltipState, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return domain.HiddenTooltip(), err
	}
	return s.Tooltip.State(), nil
}

// UpdateTranslations меняет переводы и перерисовывает текущую подсказку
func (uc *SessionUseCase) UpdateTranslations(sessionID string, t map[string]string) (domain.TooltipState, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return domain.HiddenTooltip(), err
	}
	return s.Tooltip.SetTranslations(t), nil
}

// LayerGeoJSON - источник слоя как FeatureCollection (pin включительно)
func (uc *SessionUseCase) LayerGeoJSON(sessionID, name string) (*geojson.FeatureCollection, error) {
	layer, err := uc.renderLayer(sessionID, name)
	if err != nil {
		return nil, err
	}
	return toFeatureCollection(layer.Features.Features()), nil
}

// ClusterGeoJSON - кластерный источник слоя
func (uc *SessionUseCase) ClusterGeoJSON(sessionID, name string) (*geojson.FeatureCollection, error) {
	layer, err := uc.renderLayer(sessionID, name)
	if err != nil {
		return nil, err
	}
	if layer.Clusters == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "layer is not clustered",
			"layer":  name,
		})
	}
	return toFeatureCollection(layer.Clusters.Features()), nil
}

func (uc *SessionUseCase) renderLayer(sessionID, name string) (*RenderLayer, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	layer, ok := s.Render.Layer(name)
	if !ok {
		return nil, errors.ErrUnknownLayer.WithDetails(map[string]interface{}{
			"layer": name,
		})
	}
	return layer, nil
}

// View - последний fit вида карты
func (uc *SessionUseCase) View(sessionID string) (domain.ViewState, error) {
	s, err := uc.Get(sessionID)
	if err != nil {
		return domain.ViewState{}, err
	}
	return s.Render.View().State(), nil
}

func toFeatureCollection(features []*domain.RenderFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.ToGeoJSON())
	}
	return fc
}
