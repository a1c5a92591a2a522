package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/pkg/utils"
	"github.com/geofusion-service/internal/pkg/validator"
	"github.com/geofusion-service/internal/usecase"
	"github.com/geofusion-service/internal/usecase/dto"
)

// LayerHandler - показ, скрытие и фильтр тематических слоев
type LayerHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

func NewLayerHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *LayerHandler {
	return &LayerHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// layerParam валидирует имя слоя из path
func layerParam(c *fiber.Ctx) (string, error) {
	req := dto.LayerRequest{Name: c.Params("name")}
	if err := validator.Validate(&req); err != nil {
		return "", errors.ErrUnknownLayer.WithDetails(map[string]interface{}{
			"layer": req.Name,
		})
	}
	return req.Name, nil
}

func sendFusion(c *fiber.Ctx, result *usecase.FusionResult, started time.Time) error {
	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.VisibleCount,
		TimeMSec: float64(time.Since(started).Microseconds()) / 1000,
	})
}

// Catalog godoc
// @Summary Каталог слоев
// @Tags Layers
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.LayerCatalogResponse}
// @Router /api/v1/layers [get]
func (h *LayerHandler) Catalog(c *fiber.Ctx) error {
	catalog := usecase.LayerCatalog()
	return utils.SendSuccess(c, catalog, &utils.Meta{Total: len(catalog.Layers)})
}

// State godoc
// @Summary Состояние слоев сессии
// @Description activeLayers, selectedLayer, canApplyFilter, радиусы и доступные слои
// @Tags Layers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.LayerStateResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers [get]
func (h *LayerHandler) State(c *fiber.Ctx) error {
	state, err := h.sessionUC.LayerState(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// Show godoc
// @Summary Показать слой
// @Description Запрос open-geodata, слияние с custom entities, фильтр по радиусу. Без позиции - no-op.
// @Tags Layers
// @Produce json
// @Param id path string true "ID сессии"
// @Param name path string true "Имя слоя (water, green, restaurant, church, hotel, food, food:<subtype>)"
// @Success 200 {object} utils.SuccessResponse{data=usecase.FusionResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{name}/show [post]
func (h *LayerHandler) Show(c *fiber.Ctx) error {
	started := time.Now()
	name, err := layerParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.ShowLayer(c.Context(), c.Params("id"), name)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFusion(c, result, started)
}

// Hide godoc
// @Summary Скрыть слой
// @Tags Layers
// @Produce json
// @Param id path string true "ID сессии"
// @Param name path string true "Имя слоя"
// @Success 200 {object} utils.SuccessResponse{data=dto.HideLayerResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{name}/hide [post]
func (h *LayerHandler) Hide(c *fiber.Ctx) error {
	name, err := layerParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.HideLayer(c.Context(), c.Params("id"), name)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Filter godoc
// @Summary Применить радиус к слою
// @Description Ставит радиус, запускает cooldown и перезапрашивает слой. Во время cooldown - 429.
// @Tags Layers
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param name path string true "Имя слоя"
// @Param request body dto.ApplyFilterRequest true "Радиус"
// @Success 200 {object} utils.SuccessResponse{data=usecase.FusionResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{name}/filter [post]
func (h *LayerHandler) Filter(c *fiber.Ctx) error {
	started := time.Now()
	name, err := layerParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ApplyFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.ApplyFilter(c.Context(), c.Params("id"), name, req.RadiusKm)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFusion(c, result, started)
}

// FilterSelected godoc
// @Summary Применить радиус к выбранному слою
// @Tags Layers
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ApplyFilterRequest true "Радиус"
// @Success 200 {object} utils.SuccessResponse{data=usecase.FusionResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filter [post]
func (h *LayerHandler) FilterSelected(c *fiber.Ctx) error {
	started := time.Now()
	var req dto.ApplyFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.ApplySelectedFilter(c.Context(), c.Params("id"), req.RadiusKm)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFusion(c, result, started)
}

// Features godoc
// @Summary Объекты слоя в GeoJSON
// @Description FeatureCollection источника слоя, pin включительно
// @Tags Layers
// @Produce json
// @Param id path string true "ID сессии"
// @Param name path string true "Имя слоя или pin"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{name}/features [get]
func (h *LayerHandler) Features(c *fiber.Ctx) error {
	fc, err := h.sessionUC.LayerGeoJSON(c.Params("id"), c.Params("name"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(fc)
}

// Clusters godoc
// @Summary Кластерный источник слоя в GeoJSON
// @Tags Layers
// @Produce json
// @Param id path string true "ID сессии"
// @Param name path string true "Имя кластерного слоя"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{name}/clusters [get]
func (h *LayerHandler) Clusters(c *fiber.Ctx) error {
	fc, err := h.sessionUC.ClusterGeoJSON(c.Params("id"), c.Params("name"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(fc)
}
