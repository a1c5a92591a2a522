package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
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
	userAgent  string
	logger     *zap.Logger
}

// NewNominatimClient создает клиент поиска мест
func NewNominatimClient(cfg *config.NominatimConfig, logger *zap.Logger) repository.PlaceRepository {
	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

type searchResult struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
}

// Search возвращает первый найденный результат
func (c *client) Search(ctx context.Context, query string, lang string) (*domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrPlaceNotFound
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	reqURL := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errors.ErrNetwork, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Nominatim request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Nominatim returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("%w: status %d", errors.ErrNetwork, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}
	if len(results) == 0 {
		c.logger.Debug("Place not found", zap.String("query", query))
		return nil, errors.ErrPlaceNotFound
	}

	return results[0].toDomain()
}

func (r searchResult) toDomain() (*domain.Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lat %q", errors.ErrMalformedResponse, r.Lat)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lon %q", errors.ErrMalformedResponse, r.Lon)
	}

	place := &domain.Place{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Position:    domain.LatLon{Lat: lat, Lon: lon},
		FoundAt:     time.Now(),
	}

	// boundingbox: [minLat, maxLat, minLon, maxLon]
	if len(r.BoundingBox) == 4 {
		var v [4]float64
		ok := true
		for i, s := range r.BoundingBox {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if ok {
			place.BoundingBox = &domain.BoundingBox{MinLat: v[0], MaxLat: v[1], MinLon: v[2], MaxLon: v[3]}
		}
	}

	return place, nil
}
