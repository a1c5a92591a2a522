package memory

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

type mapView struct {
	mu    sync.RWMutex
	state domain.ViewState
	now   func() time.Time
}

// NewMapView - вид карты сессии, запоминает последний fit
func NewMapView() repository.MapView {
	return &mapView{now: time.Now}
}

func (v *mapView) Fit(layer string, extent orb.Bound, padding [4]float64) {
	bb := domain.BoundingBoxFromBound(extent)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = domain.ViewState{
		Extent:  &bb,
		Padding: padding,
		Layer:   layer,
		FitAt:   v.now(),
	}
}

func (v *mapView) State() domain.ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}
