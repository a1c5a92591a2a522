package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/delivery/http/handler"
	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/infrastructure/overpass"
	"github.com/geofusion-service/internal/repository/cache"
	"github.com/geofusion-service/internal/repository/memory"
	"github.com/geofusion-service/internal/usecase"
)

const overpassChurches = `{"elements":[
	{"type":"node","id":1,"lat":48.8545,"lon":2.35,"tags":{"amenity":"place_of_worship","name":"Saint-Merri"}},
	{"type":"node","id":2,"lat":48.868,"lon":2.35,"tags":{"amenity":"place_of_worship"}}
]}`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, overpassChurches)
	}))
	t.Cleanup(geo.Close)

	logger := zap.NewNop()
	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Overpass: config.OverpassConfig{URL: geo.URL, Timeout: 5 * time.Second},
	}

	entities := memory.NewEntityRepository(&domain.CustomEntity{
		ID: "church-1", Type: "church", Name: "Notre-Dame",
		Coords: domain.LatLon{Lat: 48.852968, Lon: 2.349902},
		Tags:   map[string]string{"denomination": "catholic"},
	})
	queryCache := usecase.NewGeoQueryCache(cache.NewMemoryQueryCache(0), overpass.NewOverpassClient(&cfg.Overpass, logger), logger)
	fusion := usecase.NewFusionUseCase(queryCache, entities, usecase.FusionConfig{}, logger)
	sessions := usecase.NewSessionUseCase(fusion, nil, usecase.RenderFactory{
		NewFeatureSource: memory.NewFeatureSource,
		NewClusterSource: memory.NewClusterSource,
		NewMapView:       memory.NewMapView,
	}, usecase.SessionConfig{}, logger)

	return NewServer(cfg, logger,
		handler.NewHealthHandler(sessions, queryCache, nil, logger),
		handler.NewSessionHandler(sessions, logger),
		handler.NewLayerHandler(sessions, logger),
		handler.NewEntityHandler(entities, logger),
	)
}

func do(t *testing.T, s *Server, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	status, env := do(t, s, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var session struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.ID)
	return session.ID
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	status, env := do(t, s, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"healthy"`)
}

func TestServer_Catalog(t *testing.T) {
	s := newTestServer(t)
	status, env := do(t, s, http.MethodGet, "/api/v1/layers", nil)
	require.Equal(t, http.StatusOK, status)

	var catalog struct {
		Layers []struct {
			Name string `json:"name"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Len(t, catalog.Layers, len(domain.Layers()))
}

func TestServer_ChurchFlow(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	// no position: no-op
	status, env := do(t, s, http.MethodPost, base+"/layers/church/show", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"skip_reason":"no_position"`)

	status, _ = do(t, s, http.MethodPut, base+"/position", map[string]float64{"lat": 48.85, "lon": 2.35})
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, s, http.MethodPost, base+"/layers/church/show", nil)
	require.Equal(t, http.StatusOK, status)
	var result usecase.FusionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Published)
	assert.Equal(t, 1, result.EntityCount)
	// two OSM nodes plus the custom-only Notre-Dame
	assert.Equal(t, 3, result.FeatureCount)
	assert.Equal(t, 2, result.VisibleCount)

	status, env = do(t, s, http.MethodGet, base+"/layers", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"active_layers":["church"]`)
	assert.Contains(t, string(env.Data), `"selected_layer":"church"`)

	status, env = do(t, s, http.MethodPost, base+"/pointer", map[string]interface{}{
		"lat": 48.852968, "lon": 2.349902, "kind": "tap",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Notre-Dame")

	status, _ = do(t, s, http.MethodPost, base+"/layers/church/filter", map[string]float64{"radius_km": 3})
	require.Equal(t, http.StatusOK, status)
	status, env = do(t, s, http.MethodPost, base+"/layers/church/filter", map[string]float64{"radius_km": 4})
	assert.Equal(t, http.StatusTooManyRequests, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FILTER_COOLDOWN", env.Error.Code)
	assert.Contains(t, env.Error.Details, "retry_after_ms")

	status, _ = do(t, s, http.MethodPost, base+"/layers/church/hide", nil)
	require.Equal(t, http.StatusOK, status)
	status, env = do(t, s, http.MethodGet, base+"/tooltip", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"visible":false`)
}

func TestServer_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	status, env := do(t, s, http.MethodPost, base+"/layers/volcano/show", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_LAYER", env.Error.Code)

	status, env = do(t, s, http.MethodPut, base+"/position", map[string]float64{"lat": 120, "lon": 2})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)

	status, _ = do(t, s, http.MethodPost, base+"/layers/church/filter", map[string]float64{"radius_km": 500})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, s, http.MethodPost, base+"/pointer", map[string]interface{}{"lat": 1, "lon": 1, "kind": "hover"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, s, http.MethodGet, "/api/v1/sessions/unknown/layers", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_NOT_FOUND", env.Error.Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, http.MethodGet, "/api/v1/volcanoes", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestServer_FoodSubtypeLayerPath(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	status, env := do(t, s, http.MethodGet, "/api/v1/sessions/"+id+"/layers/food%3Abakery/clusters", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)
}

func TestServer_Entities(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/entities?types=churchs,hotels", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entities []domain.CustomEntity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entities))
	require.Len(t, entities, 1)
	assert.Equal(t, "church-1", entities[0].ID)
	assert.Equal(t, 48.852968, entities[0].Coords.Lat)

	status, _ := do(t, s, http.MethodGet, "/entities", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
