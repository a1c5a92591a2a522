package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/pkg/utils"
	"github.com/geofusion-service/internal/pkg/validator"
	"github.com/geofusion-service/internal/usecase/dto"
)

// EntityHandler отдает приватное хранилище custom entities в формате внешнего store
type EntityHandler struct {
	repo   repository.EntityRepository
	logger *zap.Logger
}

func NewEntityHandler(repo repository.EntityRepository, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetEntities godoc
// @Summary Custom entities по коллекциям
// @Description types - список коллекций через запятую (pluralized lower-case: churchs,hotels)
// @Tags Entities
// @Produce json
// @Param types query string true "Коллекции через запятую"
// @Success 200 {array} domain.CustomEntity
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /entities [get]
func (h *EntityHandler) GetEntities(c *fiber.Ctx) error {
	req := dto.EntitiesRequest{Types: c.Query("types")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	collections := make([]string, 0)
	for _, t := range strings.Split(req.Types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			collections = append(collections, strings.ToLower(t))
		}
	}
	if len(collections) == 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	entities, err := h.repo.GetByTypes(c.Context(), collections)
	if err != nil {
		h.logger.Error("Failed to load custom entities",
			zap.Strings("collections", collections),
			zap.Error(err))
		return utils.SendError(c, err)
	}
	if entities == nil {
		entities = []*domain.CustomEntity{}
	}
	// внешний store отвечает голым массивом
	return c.JSON(entities)
}
