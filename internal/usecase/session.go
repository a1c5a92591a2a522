package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geofusion-service/internal/domain"
)

// Session - состояние одного пользователя UI: слои, память тегов, подсказка, позиция
type Session struct {
	ID        string
	CreatedAt time.Time

	Controller *LayerStateController
	Matcher    *SpatialMatcher
	Render     *RenderSet
	Tooltip    *TooltipResolver

	// mu сериализует публикацию в источники и позицию
	mu       sync.Mutex
	position *domain.LatLon
	lastSeen time.Time
}

func newSession(cfg SessionConfig, factory RenderFactory, now time.Time) *Session {
	render := NewRenderSet(factory)
	return &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		Controller: NewLayerStateController(cfg.FilterCooldown, cfg.DefaultRadiusKm),
		Matcher:    NewSpatialMatcher(cfg.MatchTolerance, cfg.TagMemorySize),
		Render:     render,
		Tooltip:    NewTooltipResolver(render, nil, cfg.HitToleranceM, cfg.ClusterDistanceM),
		lastSeen:   now,
	}
}

// Position - копия позиции пользователя или nil
func (s *Session) Position() *domain.LatLon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position == nil {
		return nil
	}
	p := *s.position
	return &p
}

func (s *Session) setPosition(p domain.LatLon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = &p
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
