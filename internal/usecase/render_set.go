package usecase

import (
	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// RenderFactory создает источники отрисовки для новой сессии
type RenderFactory struct {
	NewFeatureSource func() repository.FeatureSource
	NewClusterSource func() repository.ClusterSource
	NewMapView       func() repository.MapView
}

// RenderLayer - источники одного слоя отрисовки
type RenderLayer struct {
	Name     string
	Def      domain.LayerDefinition
	Features repository.FeatureSource
	// Clusters - nil для слоев без кластеризации
	Clusters repository.ClusterSource
}

// PinLayerDefinition - слой маркера позиции пользователя, вне каталога
var PinLayerDefinition = domain.LayerDefinition{
	Name:  domain.PinLayerName,
	Kind:  domain.LayerKindPin,
	Label: "Position",
}

// RenderSet - все слои отрисовки сессии в порядке отрисовки
type RenderSet struct {
	layers map[string]*RenderLayer
	order  []*RenderLayer // снизу вверх
	view   repository.MapView
}

func NewRenderSet(f RenderFactory) *RenderSet {
	s := &RenderSet{
		layers: make(map[string]*RenderLayer),
		view:   f.NewMapView(),
	}
	for _, name := range domain.DrawOrder() {
		def, ok := domain.LookupLayer(name)
		if !ok {
			def = PinLayerDefinition
		}
		l := &RenderLayer{
			Name:     name,
			Def:      def,
			Features: f.NewFeatureSource(),
		}
		if def.Clustered {
			l.Clusters = f.NewClusterSource()
		}
		s.layers[name] = l
		s.order = append(s.order, l)
	}
	return s
}

func (s *RenderSet) Layer(name string) (*RenderLayer, bool) {
	l, ok := s.layers[name]
	return l, ok
}

// TopDown - слои сверху вниз, порядок hit-test
func (s *RenderSet) TopDown() []*RenderLayer {
	out := make([]*RenderLayer, len(s.order))
	for i, l := range s.order {
		out[len(s.order)-1-i] = l
	}
	return out
}

func (s *RenderSet) View() repository.MapView {
	return s.view
}
