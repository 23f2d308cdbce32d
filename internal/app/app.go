// Package app wires configuration, stores, mail transports and HTTP handlers
// into a runnable AutoLog server.
package app

import (
	"errors"
	"time"

	"autolog/internal/config"
	"autolog/internal/handlers"
	"autolog/internal/mailer"
	"autolog/internal/middleware"
	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Deps are the collaborators New assembles.
type Deps struct {
	Config *config.Config
	Store  *Store
	Mailer mailer.Mailer
	Logger *log.Logger
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// New builds the Fiber app with middleware, the /api routes and /health.
func New(d Deps) *fiber.App {
	cfg, logger := d.Config, d.Logger

	seq := services.NewSequenceService(d.Store.Counters)
	var issuer *services.TokenIssuer
	if cfg.JWTSecret != "" {
		issuer = services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	}

	authService := services.NewAuthService(d.Store.Users, seq, d.Mailer, services.AuthConfig{
		FrontendURL:   cfg.FrontendURL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		Tokens:        issuer,
	}, logger)
	carService := services.NewCarService(d.Store.Cars, d.Store.Notes, seq, logger)
	noteService := services.NewNoteService(d.Store.Notes, seq)

	validate := handlers.NewValidator()
	authHandler := handlers.NewAuthHandler(authService, validate, handlers.AuthConfig{
		FrontendURL: cfg.FrontendURL,
		APIBaseURL:  cfg.APIBaseURL,
	}, logger)
	carHandler := handlers.NewCarHandler(carService, validate, logger)
	noteHandler := handlers.NewNoteHandler(noteService, carService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      "autolog",
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New())

	var guards []fiber.Handler
	if cfg.AuthRequired && issuer != nil {
		guards = append(guards, middleware.AuthRequired(issuer, logger))
	}

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, guards...)
	carHandler.RegisterRoutes(api, guards...)
	noteHandler.RegisterRoutes(api, guards...)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

func errorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", "path", c.Path(), "err", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
