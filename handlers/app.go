package handlers

import (
	"climber/middleware"
	"climber/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
)

// Services bundles what the routes call into.
type Services struct {
	Results     *services.ResultService
	Players     *services.PlayerService
	Leaderboard *services.LeaderboardService
}

// NewApp builds the fiber app with middleware and every ladder route.
func NewApp(svc Services, allowedOrigins string, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "climber",
		ErrorHandler: ErrorHandler,
		BodyLimit:    64 * 1024,
	})

	app.Use(middleware.RequestContextMiddleware(logger.With().Str("component", "http").Logger()))
	if allowedOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: "GET,POST,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		}))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupMatchRoutes(app, svc.Results)
	SetupLeaderboardRoutes(app, svc.Leaderboard)
	SetupPlayerRoutes(app, svc.Players)

	return app
}
