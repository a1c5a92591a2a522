package domain

// ElementType - тип элемента ответа open-geodata сервиса
type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// Member roles внутри relation
const (
	RoleOuter = "outer"
	RoleInner = "inner"
)

// RawElement - node, way или relation в том виде, как их вернул сервис (out geom).
// После получения не изменяется.
type RawElement struct {
	Type     ElementType       `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
	Geometry []LatLon          `json:"geometry,omitempty"`
	Members  []Member          `json:"members,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`

	// Custom - синтетический node, построенный из CustomEntity
	Custom bool `json:"-"`
}

// Member - участник relation вместе с геометрией
type Member struct {
	Type     ElementType `json:"type"`
	Ref      int64       `json:"ref"`
	Role     string      `json:"role"`
	Geometry []LatLon    `json:"geometry,omitempty"`
}

// GeoQueryResult - ответ сервиса {elements: [...]}
type GeoQueryResult struct {
	Elements []RawElement `json:"elements"`
}

// Len возвращает количество элементов, nil-safe
func (r *GeoQueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Elements)
}
