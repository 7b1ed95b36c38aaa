package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/app/controllers"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Config carries what the routers mount
type Config struct {
	Controllers *controllers.Controllers
	Housing     *housing.Service
	// DisableCSRF is meant for tests that post forms directly
	DisableCSRF bool
}

func InstallRouter(app *fiber.App, cfg Config) {
	// HttpRouter installs the UserContext middleware the API depends on
	setup(app, NewHttpRouter(cfg), NewApiRouter(cfg.Housing))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
