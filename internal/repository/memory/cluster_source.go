package memory

import (
	"sync"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// clusterSource хранит только точки кластерного слоя, ключ - стабильный id
type clusterSource struct {
	mu    sync.RWMutex
	byID  map[string]*domain.RenderFeature
	order []string
}

func NewClusterSource() repository.ClusterSource {
	return &clusterSource{byID: make(map[string]*domain.RenderFeature)}
}

func (s *clusterSource) Upsert(features []*domain.RenderFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range features {
		if f == nil || !f.IsPointLike() {
			continue
		}
		if existing, ok := s.byID[f.ID]; ok {
			existing.Geometry = f.Geometry
			existing.Tags = domain.CloneTags(f.Tags)
			existing.Type = f.Type
			existing.IsIconPoint = f.IsIconPoint
			existing.Visible = f.Visible
			existing.DistanceM = f.DistanceM
			existing.Custom = f.Custom
			continue
		}
		s.byID[f.ID] = cloneFeature(f)
		s.order = append(s.order, f.ID)
	}
}

func (s *clusterSource) Retain(ids map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := ids[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(s.byID, id)
	}
	s.order = kept
}

func (s *clusterSource) Features() []*domain.RenderFeature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.RenderFeature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneFeature(s.byID[id]))
	}
	return out
}

func (s *clusterSource) Contains(featureID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[featureID]
	return ok
}

func (s *clusterSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*domain.RenderFeature)
	s.order = nil
}

func (s *clusterSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
