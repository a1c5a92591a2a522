package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/pkg/utils"
	"github.com/geofusion-service/internal/usecase"
	"github.com/geofusion-service/internal/usecase/dto"
)

// HealthCheck - проверка зависимости (postgres, redis)
type HealthCheck func(ctx context.Context) error

// HealthHandler - состояние сервиса и его зависимостей
type HealthHandler struct {
	sessionUC  *usecase.SessionUseCase
	queryCache *usecase.GeoQueryCache
	checks     map[string]HealthCheck
	logger     *zap.Logger
}

func NewHealthHandler(
	sessionUC *usecase.SessionUseCase,
	queryCache *usecase.GeoQueryCache,
	checks map[string]HealthCheck,
	logger *zap.Logger,
) *HealthHandler {
	return &HealthHandler{
		sessionUC:  sessionUC,
		queryCache: queryCache,
		checks:     checks,
		logger:     logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Failure 503 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:        "healthy",
		Sessions:      h.sessionUC.Count(),
		QueryCacheLen: h.queryCache.Len(),
		Checks:        make(map[string]string, len(h.checks)),
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "healthy" {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return utils.SendSuccess(c, resp, nil)
}
