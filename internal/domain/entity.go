package domain

import "strings"

// CustomEntity - приватная точка интереса из хранилища.
// Только для чтения: ядро никогда не пишет обратно.
type CustomEntity struct {
	ID     string            `json:"_id" db:"id"`
	Type   string            `json:"type" db:"type"`
	Name   string            `json:"name" db:"name"`
	Coords LatLon            `json:"coords"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// CollectionName - имя коллекции хранилища: lower-case тип + "s"
func CollectionName(entityType string) string {
	collection := strings.ToLower(strings.TrimSpace(entityType))
	if collection == "" {
		return ""
	}
	if !strings.HasSuffix(collection, "s") {
		collection += "s"
	}
	return collection
}

// CollectionNames переводит список типов в уникальные имена коллекций с сохранением порядка
func CollectionNames(types []string) []string {
	seen := make(map[string]struct{}, len(types))
	result := make([]string, 0, len(types))
	for _, t := range types {
		c := CollectionName(t)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}
