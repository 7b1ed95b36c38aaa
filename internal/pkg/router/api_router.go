package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/ManuelReschke/HouseHub/internal/api/v1"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
)

type ApiRouter struct {
	housing *housing.Service
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 60),
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return apiv1.WriteError(c, fiber.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "HouseHub API",
			"version": "v1",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer(h.housing)
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter(svc *housing.Service) *ApiRouter {
	return &ApiRouter{housing: svc}
}
