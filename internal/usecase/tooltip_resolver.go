package usecase

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/geofusion-service/internal/domain"
)

const (
	DefaultHitToleranceM    = 15.0
	DefaultClusterDistanceM = 40.0
)

type lastHit struct {
	layer       string
	featureID   string
	clusterSize int
	position    domain.LatLon
}

// TooltipResolver - единственная подсказка сессии и последний объект под указателем
type TooltipResolver struct {
	mu sync.Mutex

	render       *RenderSet
	templates    map[domain.LayerKind]TooltipTemplate
	translations Translations

	toleranceM       float64
	clusterDistanceM float64

	state domain.TooltipState
	last  *lastHit
}

func NewTooltipResolver(
	render *RenderSet,
	templates map[domain.LayerKind]TooltipTemplate,
	toleranceM float64,
	clusterDistanceM float64,
) *TooltipResolver {
	if templates == nil {
		templates = DefaultTooltipTemplates()
	}
	if toleranceM <= 0 {
		toleranceM = DefaultHitToleranceM
	}
	if clusterDistanceM <= 0 {
		clusterDistanceM = DefaultClusterDistanceM
	}
	return &TooltipResolver{
		render:           render,
		templates:        templates,
		translations:     Translations{},
		toleranceM:       toleranceM,
		clusterDistanceM: clusterDistanceM,
	}
}

// Pointer обрабатывает move/tap: подсказка для верхнего объекта или скрытие
func (r *TooltipResolver) Pointer(ev domain.PointerEvent) domain.TooltipState {
	tolerance := ev.ToleranceM
	if tolerance <= 0 {
		tolerance = r.toleranceM
	}

	h := hitTest(r.render.TopDown(), orb.Point{ev.Lon, ev.Lat}, tolerance, r.clusterDistanceM)

	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		r.state = domain.HiddenTooltip()
		r.last = nil
		return r.state
	}

	r.last = &lastHit{
		layer:       h.layer.Name,
		featureID:   h.feature.ID,
		clusterSize: h.clusterSize,
		position:    domain.LatLon{Lat: ev.Lat, Lon: ev.Lon},
	}
	r.state = r.renderLocked(h.layer, h.feature, h.clusterSize, r.last.position)
	return r.state
}

// SetTranslations меняет набор переводов и перерисовывает текущую подсказку
func (r *TooltipResolver) SetTranslations(t Translations) domain.TooltipState {
	cp := make(Translations, len(t))
	for k, v := range t {
		cp[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.translations = cp
	return r.refreshLocked()
}

// Refresh перерисовывает подсказку; если объект исчез из слоев, подсказка скрывается
func (r *TooltipResolver) Refresh() domain.TooltipState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshLocked()
}

func (r *TooltipResolver) refreshLocked() domain.TooltipState {
	if r.last == nil {
		return r.state
	}
	// тот же id может лежать в нескольких слоях (restaurant, food:restaurant, food),
	// перерисовываем только из слоя, в который попал указатель
	layer, ok := r.render.Layer(r.last.layer)
	var feature *domain.RenderFeature
	if ok {
		feature, ok = layer.Features.Get(r.last.featureID)
	}
	if !ok || !feature.Visible {
		r.state = domain.HiddenTooltip()
		r.last = nil
		return r.state
	}
	r.state = r.renderLocked(layer, feature, r.last.clusterSize, r.last.position)
	return r.state
}

func (r *TooltipResolver) renderLocked(
	layer *RenderLayer,
	feature *domain.RenderFeature,
	clusterSize int,
	pos domain.LatLon,
) domain.TooltipState {
	tmpl, ok := r.templates[layer.Def.Kind]
	if !ok {
		return domain.HiddenTooltip()
	}
	markup, class := tmpl(TemplateInput{
		Layer:        layer.Def,
		Tags:         feature.Tags,
		ClusterSize:  clusterSize,
		Translations: r.translations,
	})
	position := pos
	return domain.TooltipState{
		Visible:     true,
		HTML:        &markup,
		Position:    &position,
		Layer:       layer.Name,
		FeatureID:   feature.ID,
		Class:       class,
		ClusterSize: clusterSize,
	}
}

// Hide скрывает подсказку
func (r *TooltipResolver) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = domain.HiddenTooltip()
	r.last = nil
}

func (r *TooltipResolver) State() domain.TooltipState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Translations - копия текущего набора переводов
func (r *TooltipResolver) Translations() Translations {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(Translations, len(r.translations))
	for k, v := range r.translations {
		cp[k] = v
	}
	return cp
}
