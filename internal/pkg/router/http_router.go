package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/app/controllers"
	"github.com/ManuelReschke/HouseHub/internal/pkg/middleware"
)

type HttpRouter struct {
	ctrl        *controllers.Controllers
	disableCSRF bool
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(cfg Config) *HttpRouter {
	return &HttpRouter{ctrl: cfg.Controllers, disableCSRF: cfg.DisableCSRF}
}
