package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/pkg/utils"
	"github.com/geofusion-service/internal/pkg/validator"
	"github.com/geofusion-service/internal/usecase"
	"github.com/geofusion-service/internal/usecase/dto"
)

// SessionHandler - сессии, позиция пользователя, подсказки и переводы
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Создать сессию
// @Description Создает сессию UI: состояние слоев, подсказка, позиция пользователя
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	s := h.sessionUC.Create()
	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt}, nil)
}

// Delete godoc
// @Summary Удалить сессию
// @Tags Sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessionUC.Delete(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPosition godoc
// @Summary Установить позицию пользователя
// @Description Позиция из геолокации; ставит единственный маркер pin
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SetPositionRequest true "Координаты"
// @Success 200 {object} utils.SuccessResponse{data=dto.PositionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/position [put]
func (h *SessionHandler) SetPosition(c *fiber.Ctx) error {
	var req dto.SetPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.SetUserPosition(c.Context(), c.Params("id"), req.Lat, req.Lon)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// SearchPosition godoc
// @Summary Позиция по поиску места
// @Description Ищет место по названию, первая находка становится позицией пользователя
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PlaceSearchRequest true "Поисковый запрос"
// @Success 200 {object} utils.SuccessResponse{data=dto.PositionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/position/search [post]
func (h *SessionHandler) SearchPosition(c *fiber.Ctx) error {
	var req dto.PlaceSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if req.Language == "" {
		req.Language = c.Get(fiber.HeaderAcceptLanguage)
		if len(req.Language) > 2 {
			req.Language = req.Language[:2]
		}
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.sessionUC.SetPositionFromPlace(c.Context(), c.Params("id"), req.Query, req.Language)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Pointer godoc
// @Summary Событие указателя
// @Description move/tap в координатах карты, возвращает состояние подсказки
// @Tags Tooltip
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PointerRequest true "Событие"
// @Success 200 {object} utils.SuccessResponse{data=domain.TooltipState}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/pointer [post]
func (h *SessionHandler) Pointer(c *fiber.Ctx) error {
	var req dto.PointerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.Pointer(c.Params("id"), domain.PointerEvent{
		Lat:        req.Lat,
		Lon:        req.Lon,
		ToleranceM: req.ToleranceM,
		Kind:       domain.PointerKind(req.Kind),
	})
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// Tooltip godoc
// @Summary Текущая подсказка
// @Tags Tooltip
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.TooltipState}
// @Router /api/v1/sessions/{id}/tooltip [get]
func (h *SessionHandler) Tooltip(c *fiber.Ctx) error {
	state, err := h.sessionUC.Tooltip(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// Translations godoc
// @Summary Обновить переводы
// @Description Меняет набор переводов и перерисовывает текущую подсказку
// @Tags Tooltip
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.TranslationsRequest true "Переводы"
// @Success 200 {object} utils.SuccessResponse{data=domain.TooltipState}
// @Router /api/v1/sessions/{id}/translations [put]
func (h *SessionHandler) Translations(c *fiber.Ctx) error {
	var req dto.TranslationsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.UpdateTranslations(c.Params("id"), req.Translations)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, state, nil)
}

// View godoc
// @Summary Последний fit вида карты
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.ViewState}
// @Router /api/v1/sessions/{id}/view [get]
func (h *SessionHandler) View(c *fiber.Ctx) error {
	view, err := h.sessionUC.View(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, view, nil)
}
