package router

import (
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/about", h.ctrl.Page.HandleAbout)

	// Social OAuth
	app.Get("/auth/:provider", h.ctrl.OAuth.HandleBegin)
	app.Get("/auth/:provider/callback", h.ctrl.OAuth.HandleCallback)
}
