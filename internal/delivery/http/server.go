package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/delivery/http/handler"
	"github.com/geofusion-service/internal/delivery/http/middleware"
	"github.com/geofusion-service/internal/pkg/errors"
	"github.com/geofusion-service/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	healthHandler  *handler.HealthHandler
	sessionHandler *handler.SessionHandler
	layerHandler   *handler.LayerHandler
	// entityHandler - nil, если ENTITY_STORE_SERVE=false
	entityHandler *handler.EntityHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthHandler *handler.HealthHandler,
	sessionHandler *handler.SessionHandler,
	layerHandler *handler.LayerHandler,
	entityHandler *handler.EntityHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName: "GeoFusion Service",
		// open-geodata запрос ограничен OVERPASS_TIMEOUT, ответ должен успеть уйти
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Overpass.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
		// food:bakery приходит как food%3Abakery
		UnescapePath: true,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		healthHandler:  healthHandler,
		sessionHandler: sessionHandler,
		layerHandler:   layerHandler,
		entityHandler:  entityHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Private custom-entity store, тот же контракт, что у внешнего store
	if s.entityHandler != nil {
		s.app.Get("/entities", s.entityHandler.GetEntities)
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)
	api.Get("/layers", s.layerHandler.Catalog)

	// Sessions
	sessions := api.Group("/sessions")
	sessions.Post("/", s.sessionHandler.Create)
	sessions.Delete("/:id", s.sessionHandler.Delete)
	sessions.Put("/:id/position", s.sessionHandler.SetPosition)
	sessions.Post("/:id/position/search", s.sessionHandler.SearchPosition)
	sessions.Get("/:id/view", s.sessionHandler.View)

	// Layers
	sessions.Get("/:id/layers", s.layerHandler.State)
	sessions.Post("/:id/layers/:name/show", s.layerHandler.Show)
	sessions.Post("/:id/layers/:name/hide", s.layerHandler.Hide)
	sessions.Post("/:id/layers/:name/filter", s.layerHandler.Filter)
	sessions.Get("/:id/layers/:name/features", s.layerHandler.Features)
	sessions.Get("/:id/layers/:name/clusters", s.layerHandler.Clusters)
	sessions.Post("/:id/filter", s.layerHandler.FilterSelected)

	// Tooltip
	sessions.Post("/:id/pointer", s.sessionHandler.Pointer)
	sessions.Get("/:id/tooltip", s.sessionHandler.Tooltip)
	sessions.Put("/:id/translations", s.sessionHandler.Translations)
}

// App - fiber приложение (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (роутинг, тело запроса, паника) в общий конверт {"error":{...}}
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, ok := errors.As(err)
		if !ok {
			appErr = fromFiberError(err)
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", appErr.StatusCode),
			zap.Error(err),
		}
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP error", fields...)
		} else {
			logger.Warn("HTTP error", fields...)
		}

		return utils.SendError(c, appErr)
	}
}

func fromFiberError(err error) *errors.AppError {
	var fe *fiber.Error
	if !stderrors.As(err, &fe) {
		return errors.ErrInternalServer
	}
	switch {
	case fe.Code == fiber.StatusNotFound:
		return errors.New("NOT_FOUND", fe.Message, fe.Code)
	case fe.Code == fiber.StatusMethodNotAllowed:
		return errors.New("METHOD_NOT_ALLOWED", fe.Message, fe.Code)
	case fe.Code == fiber.StatusRequestEntityTooLarge:
		return errors.New("REQUEST_TOO_LARGE", fe.Message, fe.Code)
	case fe.Code < fiber.StatusInternalServerError:
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": fe.Message})
	default:
		return errors.ErrInternalServer
	}
}
