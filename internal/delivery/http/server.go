package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/map-editor/internal/config"
	"github.com/map-editor/internal/delivery/http/handler"
	"github.com/map-editor/internal/delivery/http/middleware"
	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	sessionHandler *handler.SessionHandler
	catalogHandler *handler.CatalogHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessionHandler *handler.SessionHandler,
	catalogHandler *handler.CatalogHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Map Editor",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		sessionHandler: sessionHandler,
		catalogHandler: catalogHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber приложение (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
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
	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Catalog
	api.Get("/catalog/types", s.catalogHandler.Types)

	// Sessions
	api.Get("/sessions", s.sessionHandler.List)
	api.Post("/sessions", s.sessionHandler.Create)
	api.Get("/sessions/:id", s.sessionHandler.Get)
	api.Delete("/sessions/:id", s.sessionHandler.Delete)

	// Input events
	api.Post("/sessions/:id/pointer", s.sessionHandler.Pointer)
	api.Post("/sessions/:id/keyboard", s.sessionHandler.Keyboard)
	api.Post("/sessions/:id/zoom", s.sessionHandler.Zoom)
	api.Post("/sessions/:id/tool", s.sessionHandler.Tool)

	// Editor state
	api.Get("/sessions/:id/features", s.sessionHandler.Features)
	api.Get("/sessions/:id/layers", s.sessionHandler.Layers)
	api.Get("/sessions/:id/selection", s.sessionHandler.Selection)

	// Context menu
	api.Get("/sessions/:id/actions", s.sessionHandler.Actions)
	api.Post("/sessions/:id/actions/:action", s.sessionHandler.ApplyAction)

	// Data objects
	api.Post("/sessions/:id/features/:featureId/object", s.catalogHandler.AttachObject)
	api.Delete("/sessions/:id/features/:featureId/object", s.catalogHandler.DetachObject)
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

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if apperrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(utils.ErrorResponse{
				Error: apperrors.New("HTTP_ERROR", fiberErr.Message, fiberErr.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
