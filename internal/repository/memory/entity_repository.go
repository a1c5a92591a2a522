package memory

import (
	"context"
	"sync"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
)

// entityRepository - custom entities в памяти процесса (ENTITY_SOURCE=none, тесты)
type entityRepository struct {
	mu       sync.RWMutex
	entities []*domain.CustomEntity
}

func NewEntityRepository(entities ...*domain.CustomEntity) repository.EntityStoreRepository {
	r := &entityRepository{}
	for _, e := range entities {
		if e != nil {
			cp := *e
			cp.Tags = domain.CloneTags(e.Tags)
			r.entities = append(r.entities, &cp)
		}
	}
	return r
}

// GetByTypes отбирает записи, чья коллекция входит в список; порядок вставки сохраняется
func (r *entityRepository) GetByTypes(ctx context.Context, collections []string) ([]*domain.CustomEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		wanted[c] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.CustomEntity, 0)
	for _, e := range r.entities {
		if _, ok := wanted[domain.CollectionName(e.Type)]; !ok {
			continue
		}
		cp := *e
		cp.Tags = domain.CloneTags(e.Tags)
		out = append(out, &cp)
	}
	return out, nil
}

// Upsert игнорирует collection: коллекция выводится из типа записи
func (r *entityRepository) Upsert(ctx context.Context, collection string, entity *domain.CustomEntity) error {
	cp := *entity
	cp.Tags = domain.CloneTags(entity.Tags)
	if cp.Type == "" {
		cp.Type = collection
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entities {
		if e.ID == cp.ID {
			r.entities[i] = &cp
			return nil
		}
	}
	r.entities = append(r.entities, &cp)
	return nil
}

func (r *entityRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entities {
		if e.ID == id {
			r.entities = append(r.entities[:i], r.entities[i+1:]...)
			return nil
		}
	}
	return nil
}
