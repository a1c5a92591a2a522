package usecase

import (
	"sync"
	"time"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/errors"
)

const (
	DefaultFilterCooldown = 3 * time.Second
	DefaultLayerRadiusKm  = 1.0
)

// LayerStateController - состояние слоев одной сессии. Все изменения только через методы.
type LayerStateController struct {
	mu sync.Mutex

	records  map[string]*domain.LayerRecord
	active   []string // в порядке активации
	selected string

	cooldown      time.Duration
	cooldownUntil time.Time
	defaultRadius float64

	fetchSeq  map[string]uint64 // последний выданный номер запроса
	published map[string]uint64 // номер последнего опубликованного запроса
	hideEpoch map[string]uint64 // растет на каждом Hide
	now       func() time.Time
}

// FetchTicket - номер запроса слоя и эпоха скрытия на момент его начала
type FetchTicket struct {
	Seq   uint64
	Epoch uint64
}

func NewLayerStateController(cooldown time.Duration, defaultRadiusKm float64) *LayerStateController {
	if cooldown <= 0 {
		cooldown = DefaultFilterCooldown
	}
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = DefaultLayerRadiusKm
	}
	return &LayerStateController{
		records:       make(map[string]*domain.LayerRecord),
		cooldown:      cooldown,
		defaultRadius: defaultRadiusKm,
		fetchSeq:      make(map[string]uint64),
		published:     make(map[string]uint64),
		hideEpoch:     make(map[string]uint64),
		now:           time.Now,
	}
}

// WithClock подменяет часы (для тестов)
func (c *LayerStateController) WithClock(now func() time.Time) *LayerStateController {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// record создается лениво; вызывать под mu
func (c *LayerStateController) record(name string) *domain.LayerRecord {
	r, ok := c.records[name]
	if !ok {
		r = &domain.LayerRecord{Name: name, RadiusKm: c.defaultRadius}
		c.records[name] = r
	}
	return r
}

// Radius - текущий радиус слоя, для неизвестного слоя - радиус по умолчанию
func (c *LayerStateController) Radius(name string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.records[name]; ok {
		return r.RadiusKm
	}
	return c.defaultRadius
}

// BeginFetch выдает билет запроса слоя и его текущий радиус
func (c *LayerStateController) BeginFetch(name string) (ticket FetchTicket, radiusKm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchSeq[name]++
	radiusKm = c.defaultRadius
	if r, ok := c.records[name]; ok {
		radiusKm = r.RadiusKm
	}
	return FetchTicket{Seq: c.fetchSeq[name], Epoch: c.hideEpoch[name]}, radiusKm
}

// IsCurrent - ответ по билету еще можно опубликовать: слой не скрывали после
// начала запроса и более поздний запрос еще не опубликован.
// Неудавшийся более поздний запрос билет не обесценивает.
func (c *LayerStateController) IsCurrent(name string, t FetchTicket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCurrentLocked(name, t)
}

func (c *LayerStateController) isCurrentLocked(name string, t FetchTicket) bool {
	return c.hideEpoch[name] == t.Epoch && t.Seq > c.published[name]
}

// Commit фиксирует публикацию по билету; false - ответ устарел
func (c *LayerStateController) Commit(name string, t FetchTicket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrentLocked(name, t) {
		return false
	}
	c.published[name] = t.Seq
	return true
}

// MarkActive: Inactive -> Active (или refresh), слой становится выбранным
func (c *LayerStateController) MarkActive(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.record(name)
	if !r.Active {
		r.Active = true
		c.active = append(c.active, name)
	}
	c.selected = name
}

// Hide: Active -> Inactive. Запись и радиус сохраняются, выбранным становится
// первый оставшийся активный слой или "". Запросы в полете отменяются по эпохе скрытия.
func (c *LayerStateController) Hide(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideEpoch[name]++

	wasActive := false
	if r, ok := c.records[name]; ok && r.Active {
		r.Active = false
		wasActive = true
	}
	for i, n := range c.active {
		if n == name {
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
	c.selected = ""
	if len(c.active) > 0 {
		c.selected = c.active[0]
	}
	return wasActive
}

func (c *LayerStateController) IsActive(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.records[name]
	return ok && r.Active
}

// ActiveLayers - копия множества активных слоев в порядке активации
func (c *LayerStateController) ActiveLayers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.active))
	copy(out, c.active)
	return out
}

func (c *LayerStateController) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// CanApplyFilter - глобальный cooldown истек
func (c *LayerStateController) CanApplyFilter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.now().Before(c.cooldownUntil)
}

// BeginFilter проверяет cooldown, ставит радиус слоя и запускает cooldown.
// Во время cooldown запрос отбрасывается с ErrFilterCooldown и ничего не меняет.
func (c *LayerStateController) BeginFilter(name string, radiusKm float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Before(c.cooldownUntil) {
		return errors.ErrFilterCooldown.WithDetails(map[string]interface{}{
			"retry_after_ms": c.cooldownUntil.Sub(now).Milliseconds(),
		})
	}
	c.record(name).RadiusKm = radiusKm
	c.cooldownUntil = now.Add(c.cooldown)
	return nil
}

// LayerStateSnapshot - состояние для UI
type LayerStateSnapshot struct {
	ActiveLayers        []string                      `json:"active_layers"`
	SelectedLayer       string                        `json:"selected_layer"`
	CanApplyFilter      bool                          `json:"can_apply_filter"`
	CooldownRemainingMs int64                         `json:"cooldown_remaining_ms"`
	CurrentRadiusKm     float64                       `json:"current_radius_km"`
	Layers              map[string]domain.LayerRecord `json:"layers"`
}

func (c *LayerStateController) Snapshot() LayerStateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	snap := LayerStateSnapshot{
		ActiveLayers:    make([]string, len(c.active)),
		SelectedLayer:   c.selected,
		CanApplyFilter:  !now.Before(c.cooldownUntil),
		CurrentRadiusKm: c.defaultRadius,
		Layers:          make(map[string]domain.LayerRecord, len(c.records)),
	}
	copy(snap.ActiveLayers, c.active)
	if !snap.CanApplyFilter {
		snap.CooldownRemainingMs = c.cooldownUntil.Sub(now).Milliseconds()
	}
	if r, ok := c.records[c.selected]; ok {
		snap.CurrentRadiusKm = r.RadiusKm
	}
	for name, r := range c.records {
		snap.Layers[name] = *r
	}
	return snap
}
