package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
)

type entityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewEntityRepository(db *DB) repository.EntityStoreRepository {
	return &entityRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type entityRow struct {
	ID   string  `db:"id"`
	Type string  `db:"type"`
	Name string  `db:"name"`
	Lat  float64 `db:"lat"`
	Lon  float64 `db:"lon"`
	Tags []byte  `db:"tags"`
}

// GetByTypes - все записи из перечисленных коллекций одним запросом
func (r *entityRepository) GetByTypes(ctx context.Context, collections []string) ([]*domain.CustomEntity, error) {
	if len(collections) == 0 {
		return []*domain.CustomEntity{}, nil
	}

	query := `
		SELECT id, type, name, lat, lon, tags
		FROM custom_entities
		WHERE collection = ANY($1)
		ORDER BY created_at, id
	`

	var rows []entityRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(collections)); err != nil {
		r.logger.Error("Failed to get custom entities",
			zap.Strings("collections", collections),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseError, err)
	}

	entities := make([]*domain.CustomEntity, 0, len(rows))
	for _, row := range rows {
		entity := &domain.CustomEntity{
			ID:     row.ID,
			Type:   row.Type,
			Name:   row.Name,
			Coords: domain.LatLon{Lat: row.Lat, Lon: row.Lon},
			Tags:   make(map[string]string),
		}
		if len(row.Tags) > 0 {
			if err := json.Unmarshal(row.Tags, &entity.Tags); err != nil {
				r.logger.Warn("Failed to unmarshal entity tags",
					zap.String("id", row.ID),
					zap.Error(err))
			}
		}
		entities = append(entities, entity)
	}

	r.logger.Debug("Custom entities loaded",
		zap.Strings("collections", collections),
		zap.Int("entity_count", len(entities)))

	return entities, nil
}

func (r *entityRepository) Upsert(ctx context.Context, collection string, entity *domain.CustomEntity) error {
	tags := entity.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("%w: marshal tags: %v", errors.ErrDatabaseError, err)
	}

	query := `
		INSERT INTO custom_entities (id, collection, type, name, lat, lon, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			collection = EXCLUDED.collection,
			type = EXCLUDED.type,
			name = EXCLUDED.name,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			tags = EXCLUDED.tags,
			updated_at = NOW()
	`

	_, err = r.db.ExecContext(ctx, query,
		entity.ID, collection, entity.Type, entity.Name,
		entity.Coords.Lat, entity.Coords.Lon, tagsJSON)
	if err != nil {
		r.logger.Error("Failed to upsert custom entity", zap.String("id", entity.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", errors.ErrDatabaseError, err)
	}
	return nil
}

func (r *entityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_entities WHERE id = $1`, id); err != nil {
		r.logger.Error("Failed to delete custom entity", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", errors.ErrDatabaseError, err)
	}
	return nil
}
