package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

const (
	DefaultEntityTimeout = 10 * time.Second
	DefaultFitPadding    = 50.0
)

// Причины, по которым результат не был опубликован
const (
	SkipReasonNoPosition = "no_position"
	SkipReasonStale      = "stale"
)

// FusionResult - итог одного показа слоя
type FusionResult struct {
	Layer        string  `json:"layer"`
	Query        string  `json:"query,omitempty"`
	RadiusKm     float64 `json:"radius_km"`
	CacheHit     bool    `json:"cache_hit"`
	ElementCount int     `json:"element_count"`
	EntityCount  int     `json:"entity_count"`
	FeatureCount int     `json:"feature_count"`
	VisibleCount int     `json:"visible_count"`
	Published    bool    `json:"published"`
	SkipReason   string  `json:"skip_reason,omitempty"`
}

type FusionConfig struct {
	EntityTimeout time.Duration
	FitPadding    float64
}

// FusionUseCase - конвейер показа слоя: запрос, custom entities, конвертация,
// слияние тегов, фильтр по радиусу, публикация в источник слоя
type FusionUseCase struct {
	cache     *GeoQueryCache
	entities  repository.EntityRepository
	converter *GeometryConverter
	filter    *RadiusFilter

	entityTimeout time.Duration
	padding       [4]float64
	logger        *zap.Logger
}

func NewFusionUseCase(
	cache *GeoQueryCache,
	entities repository.EntityRepository,
	cfg FusionConfig,
	logger *zap.Logger,
) *FusionUseCase {
	if cfg.EntityTimeout <= 0 {
		cfg.EntityTimeout = DefaultEntityTimeout
	}
	if cfg.FitPadding <= 0 {
		cfg.FitPadding = DefaultFitPadding
	}
	p := cfg.FitPadding
	return &FusionUseCase{
		cache:         cache,
		entities:      entities,
		converter:     NewGeometryConverter(logger),
		filter:        NewRadiusFilter(),
		entityTimeout: cfg.EntityTimeout,
		padding:       [4]float64{p, p, p, p},
		logger:        logger,
	}
}

// ShowLayer выполняет конвейер для слоя сессии. Без позиции - no-op.
// Ошибка сети или таймаут не трогают ранее опубликованное состояние.
func (uc *FusionUseCase) ShowLayer(ctx context.Context, s *Session, def domain.LayerDefinition) (*FusionResult, error) {
	result := &FusionResult{Layer: def.Name}

	pos := s.Position()
	if pos == nil {
		uc.logger.Debug("No user position, layer fetch skipped", zap.String("layer", def.Name))
		result.SkipReason = SkipReasonNoPosition
		return result, nil
	}

	ticket, radiusKm := s.Controller.BeginFetch(def.Name)
	result.RadiusKm = radiusKm
	result.Query = BuildQuery(def, *pos, radiusKm)

	var (
		geo      *domain.GeoQueryResult
		entities []*domain.CustomEntity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		geo, result.CacheHit, err = uc.cache.Resolve(gctx, result.Query)
		return err
	})
	g.Go(func() error {
		entities = uc.fetchEntities(gctx, def)
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logger.Error("Layer fetch failed",
			zap.String("session_id", s.ID),
			zap.String("layer", def.Name),
			zap.Error(err))
		return nil, err
	}

	result.ElementCount = geo.Len()
	result.EntityCount = len(entities)

	features := uc.converter.ConvertElements(geo.Elements)
	if synthetic := unmatchedEntityNodes(s.Matcher, features, entities); len(synthetic) > 0 {
		features = append(features, uc.converter.ConvertElements(synthetic)...)
	}
	for _, f := range features {
		s.Matcher.Apply(f, entities, def.FallbackName)
	}
	result.FeatureCount = len(features)
	result.VisibleCount = uc.filter.Apply(pos, radiusKm, features)

	if !uc.publish(s, def, ticket, features) {
		uc.logger.Debug("Stale layer response dropped",
			zap.String("session_id", s.ID),
			zap.String("layer", def.Name),
			zap.Uint64("fetch_seq", ticket.Seq))
		result.SkipReason = SkipReasonStale
		return result, nil
	}
	result.Published = true
	s.Tooltip.Refresh()

	uc.logger.Debug("Layer published",
		zap.String("session_id", s.ID),
		zap.String("layer", def.Name),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Int("feature_count", result.FeatureCount),
		zap.Int("visible_count", result.VisibleCount))
	return result, nil
}

// fetchEntities: один запрос на все коллекции слоя, ошибка деградирует к пустому списку
func (uc *FusionUseCase) fetchEntities(ctx context.Context, def domain.LayerDefinition) []*domain.CustomEntity {
	collections := def.EntityCollections()
	if uc.entities == nil || len(collections) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.entityTimeout)
	defer cancel()

	entities, err := uc.entities.GetByTypes(ctx, collections)
	if err != nil {
		uc.logger.Warn("Custom entity fetch failed, continuing without entities",
			zap.String("layer", def.Name),
			zap.Strings("collections", collections),
			zap.Error(err))
		return nil
	}
	return entities
}

// publish: clear + add под блокировкой сессии, только если билет актуален
func (uc *FusionUseCase) publish(s *Session, def domain.LayerDefinition, ticket FetchTicket, features []*domain.RenderFeature) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	layer, ok := s.Render.Layer(def.Name)
	if !ok || !s.Controller.Commit(def.Name, ticket) {
		return false
	}

	layer.Features.Clear()
	layer.Features.AddFeatures(features)

	if layer.Clusters != nil {
		points := make([]*domain.RenderFeature, 0, len(features))
		ids := make(map[string]struct{}, len(features))
		for _, f := range features {
			if f.IsPointLike() {
				points = append(points, f)
				ids[f.ID] = struct{}{}
			}
		}
		layer.Clusters.Upsert(points)
		layer.Clusters.Retain(ids)
	}

	if len(features) > 0 {
		if extent, ok := layer.Features.Extent(); ok {
			s.Render.View().Fit(def.Name, extent, uc.padding)
		}
	}
	s.Controller.MarkActive(def.Name)
	return true
}

// unmatchedEntityNodes - записи без объекта рядом становятся синтетическими node
func unmatchedEntityNodes(m *SpatialMatcher, features []*domain.RenderFeature, entities []*domain.CustomEntity) []domain.RawElement {
	var out []domain.RawElement
	for _, e := range entities {
		if e == nil {
			continue
		}
		matched := false
		for _, f := range features {
			if m.Within(f.RepresentativePoint(), e.Coords) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		tags := domain.CloneTags(e.Tags)
		if e.Name != "" {
			tags["name"] = e.Name
		}
		out = append(out, domain.RawElement{
			Type:   domain.ElementNode,
			Lat:    e.Coords.Lat,
			Lon:    e.Coords.Lon,
			Tags:   tags,
			Custom: true,
		})
	}
	return out
}
