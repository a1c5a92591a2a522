package nominatim

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

func TestClient_Search(t *testing.T) {
	t.Run("first result becomes the place", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "Paris", r.URL.Query().Get("q"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "fr", r.Header.Get("Accept-Language"))
			_, _ = w.Write([]byte(`[{"lat": "48.8566", "lon": "2.3522", "name": "Paris", "display_name": "Paris, Île-de-France, France", "boundingbox": ["48.81", "48.90", "2.22", "2.46"]}]`))
		}))
		defer server.Close()

		c := NewNominatimClient(&config.NominatimConfig{URL: server.URL, Timeout: time.Second}, zap.NewNop())
		place, err := c.Search(context.Background(), "Paris", "fr")
		require.NoError(t, err)
		assert.Equal(t, 48.8566, place.Position.Lat)
		assert.Equal(t, 2.3522, place.Position.Lon)
		assert.Equal(t, "Paris", place.Name)
		require.NotNil(t, place.BoundingBox)
		assert.Equal(t, 2.46, place.BoundingBox.MaxLon)
	})

	t.Run("empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewNominatimClient(&config.NominatimConfig{URL: server.URL, Timeout: time.Second}, zap.NewNop())
		_, err := c.Search(context.Background(), "Atlantis", "")
		assert.ErrorIs(t, err, errors.ErrPlaceNotFound)
	})

	t.Run("blank query", func(t *testing.T) {
		c := NewNominatimClient(&config.NominatimConfig{URL: "http://127.0.0.1:1"}, zap.NewNop())
		_, err := c.Search(context.Background(), "   ", "")
		assert.ErrorIs(t, err, errors.ErrPlaceNotFound)
	})
}
