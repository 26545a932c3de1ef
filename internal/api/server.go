package api

import (
	"github.com/gofiber/fiber/v2"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/person-service/internal/config"
	"github.com/fathima-sithara/person-service/internal/middleware"
)

// NewServer wires the HTTP routes. limiter may be nil.
func NewServer(cfg *config.Config, schema *graphql.Schema, limiter fiber.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.App.ReadTimeout,
		WriteTimeout:          cfg.App.WriteTimeout,
	})
	app.Use(middleware.ZapLogger(logger))

	h := NewHandlers(schema, logger)
	app.Get("/health", h.health)

	var chain []fiber.Handler
	if limiter != nil {
		chain = append(chain, limiter)
	}
	if cfg.JWT.Secret != "" {
		chain = append(chain, middleware.JWTAuth(cfg.JWT.Secret, logger))
	}
	gql := app.Group("/graphql", chain...)
	gql.Post("", h.postGraphQL)
	gql.Get("", h.getGraphQL)

	return app
}
