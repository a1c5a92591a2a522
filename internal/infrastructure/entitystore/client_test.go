package entitystore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/pkg/errors"
)

func TestClient_GetByTypes(t *testing.T) {
	t.Run("single batched request", func(t *testing.T) {
		calls := 0
		var gotTypes string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, "/entities", r.URL.Path)
			gotTypes = r.URL.Query().Get("types")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"_id": "a1", "type": "bakery", "name": "Chez Paul", "coords": {"lat": 48.0, "lon": 2.0}, "tags": {"opening_hours": "Mo-Sa 07:00-20:00", "stars": 4}},
				{"_id": "a2", "type": "cheese", "name": "No coords"}
			]`))
		}))
		defer server.Close()

		c := NewEntityStoreClient(&config.EntityStoreConfig{URL: server.URL + "/", Timeout: time.Second}, zap.NewNop())

		entities, err := c.GetByTypes(context.Background(), []string{"bakerys", "cheeses"})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "bakerys,cheeses", gotTypes)

		require.Len(t, entities, 1)
		assert.Equal(t, "a1", entities[0].ID)
		assert.Equal(t, "Chez Paul", entities[0].Name)
		assert.Equal(t, 48.0, entities[0].Coords.Lat)
		assert.Equal(t, "4", entities[0].Tags["stars"])
	})

	t.Run("empty type list makes no request", func(t *testing.T) {
		c := NewEntityStoreClient(&config.EntityStoreConfig{URL: "http://127.0.0.1:1"}, zap.NewNop())
		entities, err := c.GetByTypes(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewEntityStoreClient(&config.EntityStoreConfig{URL: server.URL}, zap.NewNop())
		_, err := c.GetByTypes(context.Background(), []string{"churchs"})
		assert.ErrorIs(t, err, errors.ErrEntityStore)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		c := NewEntityStoreClient(&config.EntityStoreConfig{URL: server.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
		_, err := c.GetByTypes(context.Background(), []string{"churchs"})
		assert.ErrorIs(t, err, errors.ErrEntityStore)
	})
}
