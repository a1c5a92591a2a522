package usecase

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"

	"github.com/geofusion-service/internal/domain"
)

const (
	DefaultMatchTolerance = 1e-5
	DefaultTagMemorySize  = 4096

	// toleranceEpsilon гасит ошибку округления у границы допуска
	toleranceEpsilon = 1e-12
)

// SpatialMatcher связывает объект с custom entity по координате.
// Склеенные теги запоминаются по ключу координаты (LRU, вытесняется самый давний),
// чтобы следующий проход без совпадения мог их восстановить.
type SpatialMatcher struct {
	tolerance float64
	memory    *lru.Cache[string, map[string]string]
}

func NewSpatialMatcher(tolerance float64, memorySize int) *SpatialMatcher {
	if tolerance <= 0 {
		tolerance = DefaultMatchTolerance
	}
	if memorySize <= 0 {
		memorySize = DefaultTagMemorySize
	}
	memory, _ := lru.New[string, map[string]string](memorySize)
	return &SpatialMatcher{tolerance: tolerance, memory: memory}
}

// Within - обе координаты отличаются не больше чем на допуск
func (m *SpatialMatcher) Within(p orb.Point, c domain.LatLon) bool {
	limit := m.tolerance + toleranceEpsilon
	return math.Abs(p.Lat()-c.Lat) <= limit && math.Abs(p.Lon()-c.Lon) <= limit
}

// FindMatch - первая по порядку списка запись в пределах допуска, не ближайшая
func (m *SpatialMatcher) FindMatch(p orb.Point, entities []*domain.CustomEntity) *domain.CustomEntity {
	for _, e := range entities {
		if e != nil && m.Within(p, e.Coords) {
			return e
		}
	}
	return nil
}

// Apply сливает теги совпавшей записи в объект: {...tags, ...entity.tags, name: entity.name}.
// Без совпадения используется память, иначе подставляется fallbackName, если имени нет.
func (m *SpatialMatcher) Apply(f *domain.RenderFeature, entities []*domain.CustomEntity, fallbackName string) bool {
	p := f.RepresentativePoint()
	key := domain.CoordKey(p.Lat(), p.Lon())

	if e := m.FindMatch(p, entities); e != nil {
		merged := domain.CloneTags(f.Tags)
		for k, v := range e.Tags {
			merged[k] = v
		}
		// имя записи перекрывает всегда; пустое имя уходит в fallbackName
		merged["name"] = e.Name
		if merged["name"] == "" && fallbackName != "" {
			merged["name"] = fallbackName
		}
		f.Tags = merged
		f.Custom = true
		m.memory.Add(key, domain.CloneTags(merged))
		return true
	}

	if remembered, ok := m.memory.Get(key); ok {
		merged := domain.CloneTags(f.Tags)
		for k, v := range remembered {
			merged[k] = v
		}
		f.Tags = merged
		f.Custom = true
		return true
	}

	if f.Tags == nil {
		f.Tags = make(map[string]string, 1)
	}
	if f.Tags["name"] == "" && fallbackName != "" {
		f.Tags["name"] = fallbackName
	}
	return false
}

// Remembered - теги из памяти для координаты
func (m *SpatialMatcher) Remembered(lat, lon float64) (map[string]string, bool) {
	tags, ok := m.memory.Get(domain.CoordKey(lat, lon))
	if !ok {
		return nil, false
	}
	return domain.CloneTags(tags), true
}

// MemoryLen - количество координат в памяти
func (m *SpatialMatcher) MemoryLen() int {
	return m.memory.Len()
}
