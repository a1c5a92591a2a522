package entitystore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewEntityStoreClient создает клиент приватного хранилища точек интереса
func NewEntityStoreClient(cfg *config.EntityStoreConfig, logger *zap.Logger) repository.EntityRepository {
	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// wireEntity - значения тегов в хранилище могут быть не строками
type wireEntity struct {
	ID     string                 `json:"_id"`
	Type   string                 `json:"type"`
	Name   string                 `json:"name"`
	Coords *domain.LatLon         `json:"coords"`
	Tags   map[string]interface{} `json:"tags"`
}

// GetByTypes - один запрос GET /entities?types=a,b,c
func (c *client) GetByTypes(ctx context.Context, collections []string) ([]*domain.CustomEntity, error) {
	if len(collections) == 0 {
		return []*domain.CustomEntity{}, nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	types := strings.Join(collections, ",")
	reqURL := fmt.Sprintf("%s/entities?types=%s", c.baseURL, url.QueryEscape(types))

	c.logger.Debug("Fetching custom entities", zap.String("types", types))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errors.ErrEntityStore, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrEntityStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d, body: %s", errors.ErrEntityStore, resp.StatusCode, string(body))
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", errors.ErrEntityStore, err)
	}

	entities := make([]*domain.CustomEntity, 0, len(items))
	skipped := 0
	for _, item := range items {
		var w wireEntity
		if err := json.Unmarshal(item, &w); err != nil || w.Coords == nil {
			skipped++
			continue
		}
		entities = append(entities, w.toDomain())
	}
	if skipped > 0 {
		c.logger.Warn("Skipped custom entities without coordinates", zap.Int("skipped", skipped))
	}

	c.logger.Debug("Custom entities fetched",
		zap.String("types", types),
		zap.Int("entity_count", len(entities)))

	return entities, nil
}

func (w wireEntity) toDomain() *domain.CustomEntity {
	tags := make(map[string]string, len(w.Tags))
	for k, v := range w.Tags {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			tags[k] = val
		default:
			tags[k] = fmt.Sprint(val)
		}
	}
	return &domain.CustomEntity{
		ID:     w.ID,
		Type:   w.Type,
		Name:   w.Name,
		Coords: *w.Coords,
		Tags:   tags,
	}
}
