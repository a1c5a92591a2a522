package memory

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// featureSource - упорядоченная коллекция объектов одного слоя
type featureSource struct {
	mu       sync.RWMutex
	features []*domain.RenderFeature
	index    map[string]int
}

func NewFeatureSource() repository.FeatureSource {
	return &featureSource{index: make(map[string]int)}
}

func (s *featureSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = nil
	s.index = make(map[string]int)
}

// AddFeatures добавляет объекты; объект с уже известным id заменяется на месте
func (s *featureSource) AddFeatures(features []*domain.RenderFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range features {
		if f == nil {
			continue
		}
		cp := cloneFeature(f)
		if i, ok := s.index[f.ID]; ok {
			s.features[i] = cp
			continue
		}
		s.index[f.ID] = len(s.features)
		s.features = append(s.features, cp)
	}
}

func (s *featureSource) Extent() (orb.Bound, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return extentOf(s.features)
}

func (s *featureSource) Features() []*domain.RenderFeature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.RenderFeature, len(s.features))
	for i, f := range s.features {
		out[i] = cloneFeature(f)
	}
	return out
}

func (s *featureSource) Contains(featureID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[featureID]
	return ok
}

func (s *featureSource) Get(featureID string) (*domain.RenderFeature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[featureID]
	if !ok {
		return nil, false
	}
	return cloneFeature(s.features[i]), true
}

func (s *featureSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.features)
}

func extentOf(features []*domain.RenderFeature) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound = b
			found = true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}

func cloneFeature(f *domain.RenderFeature) *domain.RenderFeature {
	cp := *f
	cp.Tags = domain.CloneTags(f.Tags)
	if f.Geometry != nil {
		cp.Geometry = orb.Clone(f.Geometry)
	}
	return &cp
}
