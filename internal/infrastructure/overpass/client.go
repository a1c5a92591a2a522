package overpass

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
)

const defaultTimeout = 20 * time.Second

// maxBodyBytes - ограничение на размер ответа
const maxBodyBytes = 64 << 20

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewOverpassClient создает клиент Overpass API
func NewOverpassClient(cfg *config.OverpassConfig, logger *zap.Logger) repository.GeoDataRepository {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		// таймаут задается через context, чтобы отличать его от сетевой ошибки
		httpClient: &http.Client{},
		baseURL:    cfg.URL,
		timeout:    timeout,
		logger:     logger,
	}
}

// Query выполняет запрос `data=<query>`
func (c *client) Query(ctx context.Context, query string) (*domain.GeoQueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + "?data=" + url.QueryEscape(query)

	c.logger.Debug("Calling Overpass API",
		zap.Int("query_length", len(query)),
		zap.Duration("timeout", c.timeout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errors.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		if resp.StatusCode == http.StatusGatewayTimeout {
			return nil, fmt.Errorf("%w: status %d", errors.ErrTimeout, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", errors.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	result, err := Decode(body)
	if err != nil {
		c.logger.Warn("Malformed Overpass response, using empty result", zap.Error(err))
		return &domain.GeoQueryResult{}, nil
	}

	c.logger.Debug("Overpass API call successful",
		zap.Int("element_count", result.Len()),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func (c *client) classify(ctx context.Context, err error) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.Error("Overpass query timed out", zap.Duration("timeout", c.timeout), zap.Error(err))
		return fmt.Errorf("%w: exceeded %s", errors.ErrTimeout, c.timeout)
	}
	c.logger.Error("Failed to execute Overpass request", zap.Error(err))
	return fmt.Errorf("%w: %v", errors.ErrNetwork, err)
}

// Decode разбирает тело ответа. Ответ без elements дает пустой результат,
// элемент, который не удалось разобрать, пропускается.
// Ошибка (ErrMalformedResponse) только если тело не является JSON объектом.
func Decode(body []byte) (*domain.GeoQueryResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}

	result := &domain.GeoQueryResult{}
	raw, ok := envelope["elements"]
	if !ok {
		return result, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return result, nil
	}

	result.Elements = make([]domain.RawElement, 0, len(items))
	for _, item := range items {
		var el domain.RawElement
		if err := json.Unmarshal(item, &el); err != nil {
			continue
		}
		switch el.Type {
		case domain.ElementNode, domain.ElementWay, domain.ElementRelation:
			result.Elements = append(result.Elements, el)
		}
	}
	return result, nil
}
